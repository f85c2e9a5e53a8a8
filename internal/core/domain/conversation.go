package domain

// Conversation is a two-party chat thread, optionally tied to a hire.
type Conversation struct {
	ID           string
	HireID       string
	Participants [2]string
}

// OtherParticipant returns the participant that is not sender. It fails when
// the sender is not part of the pair or the pair is degenerate.
func (c Conversation) OtherParticipant(sender string) (string, bool) {
	a, b := c.Participants[0], c.Participants[1]
	if a == "" || b == "" || a == b || sender == "" {
		return "", false
	}
	switch sender {
	case a:
		return b, true
	case b:
		return a, true
	}
	return "", false
}
