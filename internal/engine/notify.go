package engine

// NoticeKind classifies a notice for presentation.
type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a short text event meant for the players.
type Notice struct {
	Kind NoticeKind `json:"kind"`
	Text string     `json:"text"`
}

// Notifier receives notices. The engine only emits them.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Notify sends a notice to n if it is not nil.
func Notify(n Notifier, kind NoticeKind, text string) {
	if n == nil {
		return
	}
	n.Notify(Notice{Kind: kind, Text: text})
}

// Recorder keeps every notice it receives; handy for tests and replays.
type Recorder struct {
	Notices []Notice
}

func (r *Recorder) Notify(n Notice) { r.Notices = append(r.Notices, n) }

// Texts returns the text of every recorded notice.
func (r *Recorder) Texts() []string {
	out := make([]string, len(r.Notices))
	for i, n := range r.Notices {
		out[i] = n.Text
	}
	return out
}
