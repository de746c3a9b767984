package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"taxintake/internal/core/salary"
)

type memCache struct {
	m      map[string]string
	getErr error
	setErr error
	sets   int
	ttl    time.Duration
}

func newMem() *memCache { return &memCache{m: map[string]string{}} }

func (c *memCache) Get(_ context.Context, k string) (string, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	v, ok := c.m[k]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, k, v string, ttl time.Duration) error {
	c.sets++
	c.ttl = ttl
	if c.setErr != nil {
		return c.setErr
	}
	c.m[k] = v
	return nil
}

var in = salary.EstimateInput{
	AnnualRevenue:         500000,
	SimilarPositionSalary: 100000,
	YearsExperience:       0,
	HoursWorkedPerWeek:    40,
}

func TestKey(t *testing.T) {
	if got := Key(in); got != "estimate:v1:500000:100000:0:40" {
		t.Fatalf("key %q", got)
	}
	other := in
	other.YearsExperience = 0.5
	if Key(other) == Key(in) {
		t.Fatal("different inputs share a key")
	}
}

func TestEstimateNoCache(t *testing.T) {
	out, err := New(nil, time.Hour).Estimate(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if out.ReasonableSalary != 100000 || out.Formatted.ReasonableSalary != "$100,000.00" || out.Cached {
		t.Fatalf("out %+v", out)
	}
}

func TestEstimateMissThenHit(t *testing.T) {
	c := newMem()
	s := New(c, time.Hour)

	first, _ := s.Estimate(context.Background(), in)
	if first.Cached || c.sets != 1 || c.ttl != time.Hour {
		t.Fatalf("miss: cached=%v sets=%d ttl=%v", first.Cached, c.sets, c.ttl)
	}
	second, _ := s.Estimate(context.Background(), in)
	if !second.Cached {
		t.Fatal("second call should hit")
	}
	if second.EstimateResult != first.EstimateResult || second.Formatted != first.Formatted {
		t.Fatalf("hit differs: %+v vs %+v", second, first)
	}
}

func TestEstimateCacheFailuresIgnored(t *testing.T) {
	c := newMem()
	c.getErr = errors.New("redis down")
	c.setErr = errors.New("redis down")

	out, err := New(c, time.Hour).Estimate(context.Background(), in)
	if err != nil {
		t.Fatalf("cache failure surfaced: %v", err)
	}
	if out.TotalTax != 34650 {
		t.Fatalf("total %v", out.TotalTax)
	}
}

func TestEstimateCorruptEntryRecomputed(t *testing.T) {
	c := newMem()
	c.m[Key(in)] = "not json"

	out, _ := New(c, time.Hour).Estimate(context.Background(), in)
	if out.Cached || out.NetIncome != 65350 {
		t.Fatalf("out %+v", out)
	}
	if c.m[Key(in)] == "not json" {
		t.Fatal("corrupt entry should be overwritten")
	}
}
