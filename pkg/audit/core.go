package audit

import (
	"context"
	"time"

	"go.uber.org/zap/zapcore"
)

// SDIDFields holds the structured fields of an application log entry
const SDIDFields = "fields@32473"

// MessageIDApp is the message id of persisted application log entries
const MessageIDApp = "app"

type sinkCore struct {
	zapcore.LevelEnabler
	sink   Sink
	fields []zapcore.Field
}

// NewCore returns a zap core that persists enabled entries to sink, so
// application warnings and errors show up in the log viewer next to audit
// events.
func NewCore(sink Sink, enab zapcore.LevelEnabler) zapcore.Core {
	return &sinkCore{LevelEnabler: enab, sink: sink}
}

func (c *sinkCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &sinkCore{LevelEnabler: c.LevelEnabler, sink: c.sink}
	clone.fields = make([]zapcore.Field, 0, len(c.fields)+len(fields))
	clone.fields = append(clone.fields, c.fields...)
	clone.fields = append(clone.fields, fields...)
	return clone
}

func (c *sinkCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *sinkCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}

	sdata := map[string]any{}
	if len(enc.Fields) > 0 {
		sdata[SDIDFields] = enc.Fields
	}

	ts := ent.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	return c.sink.SaveMessage(context.Background(), Message{
		Facility:  FacilityUser,
		Severity:  int(SeverityFromLevel(ent.Level)),
		Timestamp: ts.UTC(),
		Msgid:     MessageIDApp,
		Sdata:     sdata,
		Message:   ent.Message,
	})
}

func (c *sinkCore) Sync() error {
	return nil
}

// SeverityFromLevel maps a zap level onto the syslog severity scale
func SeverityFromLevel(l zapcore.Level) Severity {
	switch l {
	case zapcore.DebugLevel:
		return SeverityDebug
	case zapcore.InfoLevel:
		return SeverityInfo
	case zapcore.WarnLevel:
		return SeverityWarning
	case zapcore.ErrorLevel:
		return SeverityError
	case zapcore.DPanicLevel, zapcore.PanicLevel:
		return SeverityCritical
	case zapcore.FatalLevel:
		return SeverityAlert
	default:
		return SeverityNotice
	}
}
