package mail

// DummyMailer records invitations instead of delivering them. Tests inject it
// to observe outbound mail or to simulate delivery failures via Err.
type DummyMailer struct {
	Sent []DummyMessage
	Err  error
}

type DummyMessage struct {
	To         string
	SenderName string
	AcceptURL  string
}

func (m *DummyMailer) SendFamilyInvite(to, senderName, acceptURL string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, DummyMessage{To: to, SenderName: senderName, AcceptURL: acceptURL})
	return nil
}
