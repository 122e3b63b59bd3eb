package pool

import "github.com/sirupsen/logrus"

// logrusStderrWriter adapts a worker subprocess's stderr stream into
// structured log lines tagged with the originating slot.
type logrusStderrWriter struct {
	log    *logrus.Logger
	slotID int
}

func (w logrusStderrWriter) Write(p []byte) (int, error) {
	w.log.WithField("slot", w.slotID).Warn(string(p))
	return len(p), nil
}
