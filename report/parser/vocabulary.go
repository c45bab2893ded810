package parser

import "strings"

// sectionTitles are the labelled (non-banner) section headers HotSpot prints.
var sectionTitles = []string{
	"Active Locale",
	"Classes loaded",
	"Classes redefined",
	"Classes unloaded",
	"Compilation events",
	"Deoptimization events",
	"Dll operation events",
	"Dynamic libraries",
	"END",
	"Environment Variables",
	"Events",
	"GC Heap History",
	"Heap",
	"Internal exceptions",
	"Logging",
	"Memory protections",
	"Native Memory Tracking",
	"Nmethod flushes",
	"Release file",
	"Signal Handlers",
	"VM Arguments",
	"VM Operations",
	"ZGC Phase Switch",
}

// Body lines that look like "Label: value" but are entries, not subsections.
var subtitleDenyList = map[string]bool{
	"Event": true,
}

var keywords = map[string]bool{
	"safepoint":                      true,
	"VMThread":                       true,
	"WatcherThread":                  true,
	"GCTaskThread":                   true,
	"ConcurrentGCThread":             true,
	"JavaThread":                     true,
	"CompilerThread":                 true,
	"LD_LIBRARY_PATH":                true,
	"DYLD_LIBRARY_PATH":              true,
	"LD_PRELOAD":                     true,
	"DYLD_INSERT_LIBRARIES":          true,
	"LDR_PRELOAD":                    true,
	"LDR_PRELOAD64":                  true,
	"C1":                             true,
	"C2":                             true,
	"nmethod":                        true,
	"daemon":                         true,
	"Halt":                           true,
	"SafepointALot":                  true,
	"Cleanup":                        true,
	"ForceSafepoint":                 true,
	"ICBufferFull":                   true,
	"VM_ClearICs":                    true,
	"CleanClassLoaderDataMetaspaces": true,
	"DeoptimizeFrame":                true,
	"DeoptimizeAll":                  true,
	"ZombieAll":                      true,
	"PrintThreads":                   true,
	"PrintMetadata":                  true,
	"FindDeadlocks":                  true,
	"Exit":                           true,
	"ThreadDump":                     true,
	"PrintCompileQueue":              true,
	"PrintClassHierarchy":            true,
	"HandshakeAllThreads":            true,
}

var signals = map[string]bool{
	"SIGABRT": true, "SIGALRM": true, "SIGBUS": true, "SIGCHLD": true,
	"SIGCONT": true, "SIGEMT": true, "SIGFPE": true, "SIGHUP": true,
	"SIGILL": true, "SIGINFO": true, "SIGINT": true, "SIGIO": true,
	"SIGKILL": true, "SIGPIPE": true, "SIGPROF": true, "SIGPWR": true,
	"SIGQUIT": true, "SIGSEGV": true, "SIGSTOP": true, "SIGSYS": true,
	"SIGTERM": true, "SIGTRAP": true, "SIGTSTP": true, "SIGTTIN": true,
	"SIGTTOU": true, "SIGURG": true, "SIGUSR1": true, "SIGUSR2": true,
	"SIGVTALRM": true, "SIGWINCH": true, "SIGXCPU": true, "SIGXFSZ": true,
	"SIGBREAK": true, "SIGDANGER": true,

	"SEGV_MAPERR": true, "SEGV_ACCERR": true, "SEGV_BNDERR": true, "SEGV_PKUERR": true,
	"BUS_ADRALN": true, "BUS_ADRERR": true, "BUS_OBJERR": true,
	"ILL_ILLOPC": true, "ILL_ILLOPN": true, "ILL_ILLADR": true, "ILL_ILLTRP": true,
	"ILL_PRVOPC": true, "ILL_PRVREG": true, "ILL_COPROC": true, "ILL_BADSTK": true,
	"FPE_INTDIV": true, "FPE_INTOVF": true, "FPE_FLTDIV": true, "FPE_FLTOVF": true,
	"FPE_FLTUND": true, "FPE_FLTRES": true, "FPE_FLTINV": true, "FPE_FLTSUB": true,
	"SI_USER": true, "SI_QUEUE": true, "SI_TKILL": true, "SI_KERNEL": true,

	"EXCEPTION_ACCESS_VIOLATION":       true,
	"EXCEPTION_ARRAY_BOUNDS_EXCEEDED":  true,
	"EXCEPTION_BREAKPOINT":             true,
	"EXCEPTION_DATATYPE_MISALIGNMENT":  true,
	"EXCEPTION_FLT_DIVIDE_BY_ZERO":     true,
	"EXCEPTION_FLT_OVERFLOW":           true,
	"EXCEPTION_ILLEGAL_INSTRUCTION":    true,
	"EXCEPTION_IN_PAGE_ERROR":          true,
	"EXCEPTION_INT_DIVIDE_BY_ZERO":     true,
	"EXCEPTION_INT_OVERFLOW":           true,
	"EXCEPTION_PRIV_INSTRUCTION":       true,
	"EXCEPTION_STACK_OVERFLOW":         true,
	"EXCEPTION_UNCAUGHT_CXX_EXCEPTION": true,
}

var namedRegisters = map[string]bool{
	// x86-64
	"RAX": true, "RBX": true, "RCX": true, "RDX": true, "RSP": true, "RBP": true,
	"RSI": true, "RDI": true, "RIP": true, "EFLAGS": true, "CSGSFS": true,
	"ERR": true, "TRAPNO": true,
	// x86
	"EAX": true, "EBX": true, "ECX": true, "EDX": true, "ESP": true, "EBP": true,
	"ESI": true, "EDI": true, "EIP": true, "CR2": true,
	// aarch64 / arm
	"SP": true, "PC": true, "LR": true, "FP": true, "CPSR": true, "PSTATE": true,
	// ppc
	"CTR": true, "XER": true, "CR": true, "MSR": true,
}

// IsKeyword reports whether word belongs to the report keyword vocabulary.
func IsKeyword(word string) bool {
	return keywords[word]
}

// IsSignal reports whether word names a signal, signal code or OS exception.
func IsSignal(word string) bool {
	return signals[word]
}

// IsRegisterName reports whether name is a CPU register name, ignoring case.
func IsRegisterName(name string) bool {
	upper := strings.ToUpper(name)
	if namedRegisters[upper] {
		return true
	}
	if len(upper) < 2 {
		return false
	}
	var prefix, rest string
	switch {
	case strings.HasPrefix(upper, "XMM"), strings.HasPrefix(upper, "YMM"):
		prefix, rest = upper[:3], upper[3:]
	default:
		prefix, rest = upper[:1], upper[1:]
	}
	n, ok := smallNumber(rest)
	if !ok {
		return false
	}
	switch prefix {
	case "R", "X", "W":
		return n <= 31
	case "XMM", "YMM":
		return n <= 31
	}
	return false
}

func smallNumber(s string) (int, bool) {
	if s == "" || len(s) > 2 || (len(s) == 2 && s[0] == '0') {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
	}
	return n, true
}
