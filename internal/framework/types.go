package framework

// Message is the queue-agnostic job representation flowing through the
// worker.
type Message struct {
	ID       string
	Queue    string
	Data     []byte
	Attempts int
	Extra    map[string]interface{}
}
