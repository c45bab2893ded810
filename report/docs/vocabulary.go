package docs

import "strings"

var keywordDocs = map[string]string{
	"safepoint": "A moment when all threads running Java code have reached a well-known point in their code, " +
		"where they don't modify the heap. Threads running JNI code are not paused because they access " +
		"Java objects through JNI.",
	"VMThread": "A special thread where the VM executes all its operations such as GC, class redefinition " +
		"and printing the thread list.",
	"WatcherThread":      "A dedicated VM thread used for simulating timer interrupts.",
	"GCTaskThread":       gcThreadDoc,
	"ConcurrentGCThread": gcThreadDoc,
	"JavaThread": "A thread created from Java code or attached to the JVM with `AttachCurrentThread()`. " +
		"Only a `JavaThread` can execute Java code and perform the `GetEnv()` JNI call.",
	"LD_LIBRARY_PATH":       libraryPathDoc,
	"DYLD_LIBRARY_PATH":     libraryPathDoc,
	"LD_PRELOAD":            preloadDoc,
	"DYLD_INSERT_LIBRARIES": preloadDoc,
	"LDR_PRELOAD":           preloadDoc,
	"LDR_PRELOAD64":         preloadDoc,
	"C1": "C1 is a HotSpot bytecode compiler that generates native code from Java bytecode.\n\n" +
		"C1 works faster than C2 but generates less optimized code. It can also emit code that collects " +
		"profiling information for C2.",
	"C2": "C2 is a HotSpot bytecode compiler that generates native code from Java bytecode.\n\n" +
		"C2 generates highly optimized code and needs accurate profiling information, so it usually " +
		"compiles a method only after thousands of calls.",
	"nmethod": "Non-interpreter method: bytecode compiled into native code.\n\n" +
		"Stored in the code cache, whose size is set with `-XX:ReservedCodeCacheSize`.",
	"daemon":                         "A *daemon* thread does not keep the JVM from exiting once the last non-daemon thread has terminated.",
	"ForceSafepoint":                 "A VM operation that forces a safepoint.",
	"ICBufferFull":                   "A VM operation that forces a safepoint because inline cache buffers are full.",
	"VM_ClearICs":                    "A VM operation that clears inline code caches.",
	"CleanClassLoaderDataMetaspaces": "A VM operation that marks metadata seen on the stack so that unreferenced entries can be deleted.",
	"DeoptimizeFrame":                "A VM operation that deoptimizes a compiled frame.",
	"PrintThreads":                   "A VM operation that prints additional information supplied by the application.",
	"PrintMetadata":                  "A VM operation that prints metaspace statistics.",
	"FindDeadlocks":                  "A VM operation that finds deadlocks involving raw monitors, object monitors and concurrent locks.",
	"Exit":                           "A VM operation that initiates the termination of the VM.",
	"ThreadDump":                     "A VM operation that prints thread information, usually invoked from `jstack`.",
	"PrintCompileQueue":              "A VM operation that prints which threads currently compile which methods.",
	"PrintClassHierarchy":            "A VM operation that prints the class hierarchy.",
	"HandshakeAllThreads":            "A VM operation that pauses all Java threads to perform certain operations.",
}

const (
	gcThreadDoc    = "A thread running garbage collection tasks such as scanning and marking."
	libraryPathDoc = "An environment variable that alters the normal dynamic library lookup. " +
		"It is usually reserved for debugging or temporary workarounds."
	preloadDoc = "An environment variable that makes the dynamic loader insert libraries into the loaded program. " +
		"This alters initialization order and symbol lookup, and is usually reserved for debugging or temporary workarounds."
)

var signalDocs = map[string]string{
	"EXCEPTION_ACCESS_VIOLATION": "Indicates a memory related error.",
	"SIGABRT": "Indicates that `abort()` was called from native code, likely because libc heap checks " +
		"detected a problem such as a double free.",
	"SIGILL":  "Indicates an illegal instruction at PC.",
	"SIGFPE":  "Indicates a floating-point error by the instruction at PC.",
	"SIGSEGV": "Indicates a segmentation violation when accessing the address in `si_addr`.",
	"SIGBUS":  "Indicates a bus error when accessing the address in `si_addr`.",
}

var registerRoles = map[string]string{
	"PC": "instruction pointer", "RIP": "instruction pointer",
	"RDI": "first argument",
	"RSI": "second argument",
	"RDX": "third argument", "X2": "third argument",
	"RCX": "4th argument", "X3": "4th argument",
	"R8": "5th argument", "X4": "5th argument",
	"R9": "6th argument", "X5": "6th argument",
	"R10": "scratch", "R11": "scratch",
	"EFLAGS": "status", "CPSR": "status",
	"CSGSFS": "segments (cs, gs, fs)",
	"ERR":    "exception vector number",
	"TRAPNO": "error code for exception",
	"X6":     "7th argument",
	"X7":     "8th argument",
	"X8":     "points to the return value if >128 bits, otherwise scratch",
	"X18":    "platform register",
	"XMM0":   "128bit floating-point, return value",
	"RAX":    "return value",
	"SP":     "stack pointer", "RSP": "stack pointer",
	"RBP": "frame pointer, callee-saved", "X29": "frame pointer, callee-saved", "FP": "frame pointer, callee-saved",
	"X30": "return address", "LR": "return address",
	"X0": "first argument, return value",
	"X1": "second argument, return value",
}

func init() {
	for _, r := range []string{"RBX", "R12", "R13", "R14", "R15",
		"X19", "X20", "X21", "X22", "X23", "X24", "X25", "X26", "X27", "X28"} {
		registerRoles[r] = "callee-saved"
	}
	for _, r := range []string{"X9", "X10", "X11", "X12", "X13", "X14", "X15", "X16", "X17"} {
		registerRoles[r] = "scratch"
	}
	for _, r := range []string{"XMM1", "XMM2", "XMM3", "XMM4", "XMM5", "XMM6", "XMM7"} {
		registerRoles[r] = "128bit floating-point"
	}
}

// RegisterRole describes the calling-convention role of a register on
// x86-64 or AArch64.
func RegisterRole(name string) string {
	if role, ok := registerRoles[strings.ToUpper(name)]; ok {
		return role
	}
	return "unknown"
}
