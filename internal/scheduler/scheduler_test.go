package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/i474232898/weather-chat/internal/weather"
)

type probeProvider struct {
	err   error
	calls int
}

func (p *probeProvider) Name() string { return "probe" }

func (p *probeProvider) CurrentByCity(context.Context, string) (weather.Report, error) {
	p.calls++
	return weather.Report{City: "London"}, p.err
}

func (p *probeProvider) CurrentByCoordinates(context.Context, weather.Coordinates) (weather.Report, error) {
	return weather.Report{}, errors.New("not used")
}

func TestRunOnceRecordsResult(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		wantOK bool
	}{
		{"healthy", nil, true},
		{"unknown city still reachable", &weather.NotFoundError{City: "London"}, true},
		{"provider down", weather.ErrUnavailable, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prov := &probeProvider{err: tc.err}
			s := New(prov, "London", time.Minute, zaptest.NewLogger(t))

			if _, ok := s.Last(); ok {
				t.Fatalf("expected no result before first probe")
			}

			res := s.RunOnce(context.Background())
			if res.OK != tc.wantOK {
				t.Fatalf("expected ok=%v, got %+v", tc.wantOK, res)
			}
			if !tc.wantOK && res.Error == "" {
				t.Fatalf("expected error text on failed probe")
			}

			last, ok := s.Last()
			if !ok || last != res {
				t.Fatalf("expected last result to be recorded, got %+v", last)
			}
			if prov.calls != 1 {
				t.Fatalf("expected one provider call, got %d", prov.calls)
			}
		})
	}
}

func TestStartDisabled(t *testing.T) {
	prov := &probeProvider{}
	s := New(prov, "London", 0, zaptest.NewLogger(t))
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Stop()
	if prov.calls != 0 {
		t.Fatalf("expected no probes when disabled")
	}
}
