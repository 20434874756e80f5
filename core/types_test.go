package core

import (
	"strings"
	"sync"
	"testing"
)

func TestLocationArithmetic(t *testing.T) {
	a := Location{X: 3, Y: 4}
	b := Location{X: 1, Y: -2}

	if got := a.Add(b); got != (Location{X: 4, Y: 2}) {
		t.Errorf("Add: got %v", got)
	}
	if got := a.Sub(b); got != (Location{X: 2, Y: 6}) {
		t.Errorf("Sub: got %v", got)
	}
	if !a.IsValid() {
		t.Error("expected (3,4) to be valid")
	}
	if Invalid.IsValid() {
		t.Error("expected Invalid to be invalid")
	}
	if a.String() != "(3,4)" {
		t.Errorf("String: got %q", a.String())
	}
}

func TestPathBasics(t *testing.T) {
	tests := []struct {
		name    string
		points  []Location
		hasPath bool
		start   Location
		goal    Location
	}{
		{name: "empty", points: nil, hasPath: false, start: Invalid, goal: Invalid},
		{name: "single cell", points: []Location{{X: 2, Y: 2}}, hasPath: false, start: Location{X: 2, Y: 2}, goal: Location{X: 2, Y: 2}},
		{name: "route", points: []Location{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}}, hasPath: true, start: Location{X: 0, Y: 0}, goal: Location{X: 2, Y: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPath(tt.points, 0)
			if p.HasPath() != tt.hasPath {
				t.Errorf("HasPath: got %v, want %v", p.HasPath(), tt.hasPath)
			}
			if p.Start() != tt.start {
				t.Errorf("Start: got %v, want %v", p.Start(), tt.start)
			}
			if p.Goal() != tt.goal {
				t.Errorf("Goal: got %v, want %v", p.Goal(), tt.goal)
			}
			if p.Length() != len(tt.points) {
				t.Errorf("Length: got %d, want %d", p.Length(), len(tt.points))
			}
		})
	}
}

func TestPathCopiesInput(t *testing.T) {
	points := []Location{{X: 0, Y: 0}, {X: 1, Y: 0}}
	p := NewPath(points, 1)
	points[0].X = 99
	if p.Points[0].X == 99 {
		t.Fatal("path shares storage with its input")
	}
}

func TestPathContains(t *testing.T) {
	p := NewPath([]Location{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}, 2)

	if !p.Contains(Location{X: 1, Y: 0}) {
		t.Error("expected (1,0) on path")
	}
	if p.Contains(Location{X: 1, Y: 1}) {
		t.Error("did not expect (1,1) on path")
	}

	if !strings.HasPrefix(p.String(), "Path (cost=2.000): (0,0)") {
		t.Errorf("unexpected String: %q", p.String())
	}
	if (Path{}).String() != "empty path" {
		t.Errorf("unexpected empty String: %q", (Path{}).String())
	}
}

func TestPathContainsShared(t *testing.T) {
	p := NewPath([]Location{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}, 2)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if !p.Contains(Location{X: 1, Y: 1}) || p.Contains(Location{X: 1, Y: 0}) {
					t.Error("wrong membership under concurrent use")
					return
				}
			}
		}()
	}
	wg.Wait()

	literal := Path{Points: []Location{{X: 5, Y: 5}}}
	if !literal.Contains(Location{X: 5, Y: 5}) {
		t.Error("literal path should contain its point")
	}
	if literal.members != nil {
		t.Error("Contains must not build state on the path")
	}
}
