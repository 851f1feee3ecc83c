package track

import "testing"

func TestMultiLightWriterFansOut(t *testing.T) {
	var first, second []int
	writer := MultiLightWriter(
		LightWriterFunc(func(zone int, on bool) { first = append(first, zone) }),
		nil,
		LightWriterFunc(func(zone int, on bool) { second = append(second, zone) }),
	)

	writer.SetLight(2, true)
	writer.SetLight(4, false)

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected both writers to see 2 commands, got %d and %d", len(first), len(second))
	}
	if first[0] != 2 || second[1] != 4 {
		t.Fatalf("unexpected zones: %v, %v", first, second)
	}
}

func TestNilLightWriterFuncIsSafe(t *testing.T) {
	var writer LightWriterFunc
	writer.SetLight(0, true)
}
