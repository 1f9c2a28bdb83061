package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"SizeWise/internal/calc/friction"
	"SizeWise/internal/calc/velocity"
)

// Calculator is the part of the engine a batch needs.
type Calculator interface {
	FrictionLoss(friction.Input) (friction.Result, error)
	VelocityPressure(velocity.Input) (velocity.Result, error)
}

type Segment struct {
	ID       string         `json:"id"`
	Friction friction.Input `json:"friction"`
}

type SegmentResult struct {
	ID               string           `json:"id"`
	Friction         *friction.Result `json:"friction,omitempty"`
	VelocityPressure *velocity.Result `json:"velocity_pressure,omitempty"`
	Error            string           `json:"error,omitempty"`
}

type Summary struct {
	Segments          int     `json:"segments"`
	Failed            int     `json:"failed"`
	TotalFrictionLoss float64 `json:"total_friction_loss"`
	MaxFrictionRate   float64 `json:"max_friction_rate"`
}

type Result struct {
	Results []SegmentResult `json:"results"`
	Summary Summary         `json:"summary"`
}

// Calculate runs every segment through calc on a pool of workers. Results
// keep the input order; a failing segment records its error and the rest
// of the batch carries on. workers <= 0 means one per CPU.
func Calculate(ctx context.Context, calc Calculator, segments []Segment, workers int) (Result, error) {
	if len(segments) == 0 {
		return Result{}, fmt.Errorf("no segments")
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(segments) {
		workers = len(segments)
	}

	out := make([]SegmentResult, len(segments))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				out[idx] = run(calc, segments[idx])
			}
		}()
	}

feed:
	for i := range segments {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{Results: out, Summary: summarize(out)}
	log.WithFields(log.Fields{
		"segments": res.Summary.Segments,
		"failed":   res.Summary.Failed,
		"workers":  workers,
	}).Info("batch calculated")
	return res, nil
}

func run(calc Calculator, seg Segment) SegmentResult {
	id := seg.ID
	if id == "" {
		id = uuid.NewString()
	}
	out := SegmentResult{ID: id}
	fr, err := calc.FrictionLoss(seg.Friction)
	if err != nil {
		log.WithFields(log.Fields{"segment": id}).WithError(err).Warn("segment failed")
		out.Error = err.Error()
		return out
	}
	out.Friction = &fr

	vp, err := calc.VelocityPressure(velocity.Input{
		Velocity:   seg.Friction.Velocity,
		Conditions: seg.Friction.Conditions,
		Accuracy:   seg.Friction.Accuracy,
	})
	if err != nil {
		log.WithFields(log.Fields{"segment": id}).WithError(err).Warn("segment velocity pressure failed")
		out.Error = err.Error()
		return out
	}
	out.VelocityPressure = &vp
	return out
}

func summarize(results []SegmentResult) Summary {
	s := Summary{Segments: len(results)}
	var losses, rates []float64
	for _, r := range results {
		if r.Error != "" {
			s.Failed++
		}
		if r.Friction == nil {
			continue
		}
		losses = append(losses, r.Friction.FrictionLoss)
		rates = append(rates, r.Friction.FrictionRate)
	}
	if len(losses) > 0 {
		s.TotalFrictionLoss = floats.Sum(losses)
		s.MaxFrictionRate = floats.Max(rates)
	}
	return s
}
