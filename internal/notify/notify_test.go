package notify

import (
	"strings"
	"testing"
	"time"
)

type recorder struct {
	titles []string
}

func (r *recorder) Notify(title, message string, level Level) error {
	r.titles = append(r.titles, title)
	return nil
}

func TestDiscard_AcceptsEverything(t *testing.T) {
	var n Notifier = Discard{}
	for _, level := range []Level{LevelInfo, LevelWarning, LevelError} {
		if err := n.Notify("Volume mixer", "SndVol.exe missing", level); err != nil {
			t.Fatalf("Notify(%v) = %v", level, err)
		}
	}
}

func TestLimited_DropsRepeatsWithinInterval(t *testing.T) {
	now := time.Unix(100, 0)
	rec := &recorder{}
	l := NewLimited(rec, 5*time.Second)
	l.Now = func() time.Time { return now }

	l.Notify("a", "", LevelInfo)
	l.Notify("a", "", LevelInfo)
	l.Notify("b", "", LevelInfo)
	now = now.Add(6 * time.Second)
	l.Notify("a", "", LevelInfo)

	want := []string{"a", "b", "a"}
	if strings.Join(rec.titles, ",") != strings.Join(want, ",") {
		t.Fatalf("delivered %v, want %v", rec.titles, want)
	}
}
