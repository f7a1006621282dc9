package device

import (
	"hash/fnv"
	"io"
	"math/rand"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/signal"
)

// generator produces integer samples for one stream. Output is fully
// deterministic for a given seed, which keeps tests and replays stable.
type generator struct {
	kind   signal.Kind
	rng    *rand.Rand
	baseHR int
	hr     int // current walked heart rate
	step   int
}

func newGenerator(kind signal.Kind, baseHR int, seed int64) *generator {
	return &generator{
		kind:   kind,
		rng:    rand.New(rand.NewSource(seed)),
		baseHR: baseHR,
		hr:     baseHR,
	}
}

// seedFor derives a stable per-stream seed from the device id and kind.
func seedFor(deviceID string, kind signal.Kind, base int64) int64 {
	h := fnv.New64a()
	io.WriteString(h, deviceID)
	io.WriteString(h, "/")
	io.WriteString(h, string(kind))
	return base + int64(h.Sum64())
}

// next produces n values.
func (g *generator) next(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = g.value()
	}
	return out
}

func (g *generator) value() int {
	g.step++
	switch g.kind {
	case signal.KindECG:
		return g.ecg()
	case signal.KindPPG:
		return g.ppg()
	case signal.KindRR, signal.KindPPI:
		return g.beatInterval()
	case signal.KindHR:
		return g.heartRate()
	case signal.KindACC, signal.KindGYR:
		return g.noise(40)
	default:
		return 0
	}
}

// ecg emits a flat noisy baseline with an R spike and S dip once per beat.
// At 130 Hz and ~72 bpm a beat spans roughly 26 samples.
func (g *generator) ecg() int {
	switch g.step % 26 {
	case 0:
		return 1400 + g.rng.Intn(300)
	case 1:
		return -(200 + g.rng.Intn(150))
	default:
		return g.noise(45)
	}
}

// ppg emits a triangle pulse wave around the sensor's DC level.
func (g *generator) ppg() int {
	pos := g.step % 40
	if pos >= 20 {
		pos = 40 - pos
	}
	return 1800 + pos*40 + g.rng.Intn(30)
}

// beatInterval emits milliseconds between beats with jitter.
func (g *generator) beatInterval() int {
	return 60000/g.baseHR + g.rng.Intn(51) - 25
}

// heartRate walks the rate one bpm at a time, clamped near the profile base.
func (g *generator) heartRate() int {
	g.hr += g.rng.Intn(3) - 1
	if g.hr < g.baseHR-12 {
		g.hr = g.baseHR - 12
	}
	if g.hr > g.baseHR+12 {
		g.hr = g.baseHR + 12
	}
	return g.hr
}

func (g *generator) noise(scale int) int {
	return g.rng.Intn(2*scale+1) - scale
}
