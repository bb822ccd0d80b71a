package journal

import "github.com/warp/settlement-engine/accounting"

// Tee fans every entry out to each recorder in order. Used to pair the
// in-memory inspection journal with a durable export.
func Tee(recorders ...accounting.Recorder) accounting.Recorder {
	return tee(recorders)
}

type tee []accounting.Recorder

func (t tee) Record(e accounting.JournalEntry) {
	for _, r := range t {
		r.Record(e)
	}
}
