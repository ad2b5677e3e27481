package contract

// Intent is the classified purpose of a user utterance, one of a closed set.
type Intent string

const (
	IntentOrder  Intent = "order"
	IntentStatus Intent = "status"
	IntentExit   Intent = "exit"

	// IntentHelp is the fallback: every label the classifier emits outside
	// the three routable ones collapses to it in the dialogue loop.
	IntentHelp Intent = "help"
)

// Routable reports whether the label maps to a fixed workflow. Anything else
// is handed to the reply collaborator as a help request.
func (i Intent) Routable() bool {
	switch i {
	case IntentOrder, IntentStatus, IntentExit:
		return true
	default:
		return false
	}
}

// Identity is the authentication pair for a client. Both fields must match an
// existing client record before any prescription or order is disclosed.
type Identity struct {
	MedicareNumber string
	DateOfBirth    string
}

func (id Identity) Empty() bool {
	return id.MedicareNumber == "" && id.DateOfBirth == ""
}
