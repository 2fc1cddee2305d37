package session

// NoticeKind styles a notification.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeError
)

// String returns the kind name.
func (k NoticeKind) String() string {
	switch k {
	case NoticeInfo:
		return "info"
	case NoticeSuccess:
		return "success"
	case NoticeError:
		return "error"
	default:
		return "unknown"
	}
}

// Notice is a transient notification. Only one is visible at a time; a new
// one replaces it and restarts its timer.
type Notice struct {
	Kind    NoticeKind
	Message string
	// Token identifies this notice to HideNotice.
	Token uint64
}

// notify must be called with s.mu held.
func (s *Session) notify(kind NoticeKind, msg string) Notice {
	s.noticeToken++
	s.notice = Notice{Kind: kind, Message: msg, Token: s.noticeToken}
	s.noticeVisible = true
	return s.notice
}

// Notify shows msg and returns the notice, whose token is needed to hide it.
func (s *Session) Notify(kind NoticeKind, msg string) Notice {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.notify(kind, msg)
}

// Notice returns the current notice and whether it is visible.
func (s *Session) Notice() (Notice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.notice, s.noticeVisible
}

// HideNotice hides the notice identified by token. A newer notice stays up.
func (s *Session) HideNotice(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.noticeVisible || token != s.noticeToken {
		return false
	}
	s.noticeVisible = false
	return true
}
