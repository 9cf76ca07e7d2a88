package kernel

import (
	"math"

	"robotwars/internal/kernel/mask"
)

// floodSeedOffsetPx is how far behind the fan bisector the flood-fill
// seed point sits.
const floodSeedOffsetPx = 10

// rasteriseSensorMasks rebuilds the radar fan mask for every on and
// powered radar slot, before the sensor sampling pass runs.
func (e *Engine) rasteriseSensorMasks() {
	for _, r := range e.liveRobots() {
		for i := range r.Sensors {
			s := &r.Sensors[i]
			if s.Type != SensorRadar || !s.On || !s.Powered {
				s.Mask = nil
				continue
			}
			e.buildRadarMask(r, s)
		}
	}
}

// buildRadarMask draws the fan: fill a disc of the configured range,
// erase the two boundary radials, then flood-fill away the portion
// behind the fan, leaving only the wedge between the two radials.
// DrawX/DrawY record the pixel offset of the robot centre within the
// mask, for the rendering contract.
func (e *Engine) buildRadarMask(r *Robot, s *Sensor) {
	rangePx := s.Range * e.cfg.Arena.PxPerCM
	size := int(rangePx)*2 + 4
	m := mask.New(size, size)
	cx, cy := size/2, size/2

	bisector := r.Heading + s.Angle
	startAngle := bisector + s.Width/2
	endAngle := bisector - s.Width/2

	m.FillDisc(cx, cy, rangePx, colourFor(r.Color))
	m.EraseRadial(cx, cy, startAngle, rangePx)
	m.EraseRadial(cx, cy, endAngle, rangePx)

	behind := bisector + 180
	rad := behind * math.Pi / 180
	seedX := cx + int(math.Round(floodSeedOffsetPx*math.Cos(rad)))
	seedY := cy + int(math.Round(floodSeedOffsetPx*math.Sin(rad)))
	m.FloodFillErase(seedX, seedY)

	s.Mask = m
	s.DrawX, s.DrawY = cx, cy
}

// runSensors samples every on and powered sensor. Off or
// unpowered sensors report -1, matching get_sensor's "else -1" contract.
func (e *Engine) runSensors() {
	live := e.liveRobots()
	for _, r := range live {
		for i := range r.Sensors {
			s := &r.Sensors[i]
			if s.Type == SensorNone || !s.On || !s.Powered {
				s.Data = -1
				continue
			}
			switch s.Type {
			case SensorRadar:
				s.Data = e.sampleRadar(r, s, live)
			case SensorRange:
				s.Data = e.sampleRange(r, s, live)
			}
		}
	}
}

// sampleRadar returns 1 iff the fan mask overlaps any other robot's
// current mask, else 0.
func (e *Engine) sampleRadar(r *Robot, s *Sensor, live []*Robot) float64 {
	if s.Mask == nil {
		return 0
	}
	mx := e.toPx(r.X) - s.DrawX
	my := e.toPx(r.Y) - s.DrawY
	for _, other := range live {
		if other.ID == r.ID {
			continue
		}
		ox, oy := e.maskOrigin(other.Mask, other.X, other.Y)
		if mask.Overlap(s.Mask, mx, my, other.Mask, ox, oy) {
			return 1
		}
	}
	return 0
}

// sampleRange walks a line from the robot centre out to the sensor's
// range at its mount angle, stopping at the first other-robot-mask pixel
// or the arena boundary; data is the cm distance to the hit, or the full
// configured range if the walk completes untouched.
func (e *Engine) sampleRange(r *Robot, s *Sensor, live []*Robot) float64 {
	rad := (r.Heading + s.Angle) * math.Pi / 180
	x0, y0 := e.toPx(r.X), e.toPx(r.Y)
	rangePx := s.Range * e.cfg.Arena.PxPerCM
	x1 := x0 + int(math.Round(rangePx*math.Cos(rad)))
	y1 := y0 + int(math.Round(rangePx*math.Sin(rad)))

	pxW, pxH := e.arenaPxW(), e.arenaPxH()
	hitX, hitY, hit := mask.WalkLine(x0, y0, x1, y1, func(x, y int) bool {
		if x < 0 || y < 0 || x >= pxW || y >= pxH {
			return true
		}
		for _, other := range live {
			if other.ID == r.ID {
				continue
			}
			ox, oy := e.maskOrigin(other.Mask, other.X, other.Y)
			if other.Mask.Opaque(x-ox, y-oy) {
				return true
			}
		}
		return false
	})
	if !hit {
		return s.Range
	}
	return math.Hypot(float64(hitX-x0), float64(hitY-y0)) / e.cfg.Arena.PxPerCM
}
