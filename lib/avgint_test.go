package lib

import "testing"

func TestAverageInt64(t *testing.T) {
	av := &AverageInt64{}
	if av.Mean() != 0 || av.SD() != 0 || av.Variance() != 0 {
		t.Errorf("empty average should be zero")
	}
	for _, sample := range []int64{2, 4, 4, 4, 5, 5, 7, 9} {
		av.Add(sample)
	}
	if x := av.Samples(); x != 8 {
		t.Errorf("expected %v, got %v", 8, x)
	} else if x := av.Min(); x != 2 {
		t.Errorf("expected %v, got %v", 2, x)
	} else if x := av.Max(); x != 9 {
		t.Errorf("expected %v, got %v", 9, x)
	} else if x := av.sum; x != 40 {
		t.Errorf("expected %v, got %v", 40, x)
	} else if x := av.Mean(); x != 5 {
		t.Errorf("expected %v, got %v", 5, x)
	} else if x := av.Variance(); x != 4 {
		t.Errorf("expected %v, got %v", 4, x)
	} else if x := av.SD(); x != 2 {
		t.Errorf("expected %v, got %v", 2, x)
	}
	if stats := av.Stats(); stats["mean"].(int64) != 5 {
		t.Errorf("unexpected %v", stats)
	}
	av.Reset()
	if av.Samples() != 0 || av.Max() != 0 {
		t.Errorf("unexpected %v %v", av.Samples(), av.Max())
	}
}

func TestAverageNegative(t *testing.T) {
	av := &AverageInt64{}
	av.Add(-10)
	av.Add(-20)
	if av.Min() != -20 || av.Max() != -10 {
		t.Errorf("unexpected min %v max %v", av.Min(), av.Max())
	}
}
