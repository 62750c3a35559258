package audit

//go:generate go run github.com/dmarkham/enumer -type Severity -trimprefix Severity -transform lower -yaml -output severity.gen.go

// Severity levels matching syslog (RFC5424)
type Severity int

const (
	SeverityEmergency Severity = iota // 0
	SeverityAlert                     // 1
	SeverityCritical                  // 2
	SeverityError                     // 3
	SeverityWarning                   // 4
	SeverityNotice                    // 5
	SeverityInfo                      // 6
	SeverityDebug                     // 7
)

// AtLeast reports whether s is as severe as min or more.
// Lower values are more severe.
func (s Severity) AtLeast(min Severity) bool {
	return s <= min
}
