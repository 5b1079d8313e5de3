package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/scanbrief/scanbrief/internal/model"
)

// recordingStep appends its name to a shared trace when executed.
type recordingStep struct {
	name  string
	trace *[]string
	err   error
}

func (s *recordingStep) Name() string { return s.name }

func (s *recordingStep) Do(_ context.Context, _ *model.ScanReport) error {
	*s.trace = append(*s.trace, s.name)
	return s.err
}

func TestPipelineExecutesInOrder(t *testing.T) {
	t.Parallel()

	var trace []string
	p := New()
	p.AddSteps(
		&recordingStep{name: "first", trace: &trace},
		&recordingStep{name: "second", trace: &trace},
		&recordingStep{name: "third", trace: &trace},
	)

	report := model.NewScanReport("scan.csv")
	if err := p.Execute(context.Background(), report); err != nil {
		t.Fatalf("Execute() = %v, expected nil", err)
	}

	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(trace, want) {
		t.Errorf("execution order = %v, expected %v", trace, want)
	}
}

func TestPipelineStopsOnError(t *testing.T) {
	t.Parallel()

	stepErr := errors.New("step broke")
	var trace []string
	p := New()
	p.AddSteps(
		&recordingStep{name: "first", trace: &trace, err: stepErr},
		&recordingStep{name: "second", trace: &trace},
	)

	report := model.NewScanReport("scan.csv")
	err := p.Execute(context.Background(), report)

	if !errors.Is(err, stepErr) {
		t.Errorf("Execute() = %v, expected %v", err, stepErr)
	}
	if len(trace) != 1 {
		t.Errorf("executed steps = %v, expected only the first", trace)
	}
	if report.Error != stepErr.Error() {
		t.Errorf("report.Error = %q, expected %q", report.Error, stepErr.Error())
	}
}

func TestPipelineContinueOnError(t *testing.T) {
	t.Parallel()

	var trace []string
	p := New(WithContinueOnError(true))
	p.AddSteps(
		&recordingStep{name: "first", trace: &trace, err: errors.New("step broke")},
		&recordingStep{name: "second", trace: &trace},
	)

	report := model.NewScanReport("scan.csv")
	if err := p.Execute(context.Background(), report); err != nil {
		t.Fatalf("Execute() = %v, expected nil with continueOnError", err)
	}
	if len(trace) != 2 {
		t.Errorf("executed steps = %v, expected both", trace)
	}
}

func TestPipelineRespectsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var trace []string
	p := New()
	p.AddStep(&recordingStep{name: "never", trace: &trace})

	err := p.Execute(ctx, model.NewScanReport("scan.csv"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() = %v, expected context.Canceled", err)
	}
	if len(trace) != 0 {
		t.Errorf("steps ran after cancellation: %v", trace)
	}
}

func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	var trace []string
	p := New()
	p.AddSteps(
		&recordingStep{name: "a", trace: &trace},
		&recordingStep{name: "b", trace: &trace},
	)

	if p.StepCount() != 2 {
		t.Errorf("StepCount() = %d, expected 2", p.StepCount())
	}
	if got := p.StepNames(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("StepNames() = %v", got)
	}
}
