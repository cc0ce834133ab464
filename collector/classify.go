package collector

// Severity is the band a percentage falls in
type Severity int

const (
	Normal Severity = iota
	Warning
	Critical
)

func (s Severity) String() string {
	switch s {
	case Normal:
		return "normal"
	case Warning:
		return "warning"
	default:
		return "critical"
	}
}

// Breakpoints split percentages into bands: below Low is Normal,
// below High is Warning, anything else Critical.
type Breakpoints struct {
	Low  float64
	High float64
}

var (
	CPUBreakpoints    = Breakpoints{Low: 50, High: 80}
	MemoryBreakpoints = Breakpoints{Low: 60, High: 85}

	// per-row colouring in the process table
	ProcessCPUBreakpoints    = Breakpoints{Low: 20, High: 50}
	ProcessMemoryBreakpoints = Breakpoints{Low: 5, High: 10}
)

// Classify maps value to a Severity. Any real value is accepted.
func Classify(value float64, bp Breakpoints) Severity {
	switch {
	case value < bp.Low:
		return Normal
	case value < bp.High:
		return Warning
	default:
		return Critical
	}
}
