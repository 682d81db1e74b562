package grove

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// Range is a closed interval sampled uniformly by Random.
type Range struct {
	Min, Max float32
}

// Random returns a random float32 in [Min, Max].
func (r Range) Random() float32 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rand.Float32()*(r.Max-r.Min)
}

// particle holds per-particle simulation state. Unexported; managed by ParticleEmitter.
type particle struct {
	pos        mgl32.Vec3
	vel        mgl32.Vec3
	life       float32 // remaining lifetime in seconds
	maxLife    float32 // initial lifetime (for computing t)
	startScale float32
	endScale   float32
	scale      float32
	startAlpha float32
	endAlpha   float32
	alpha      float32
	startColor Color
	endColor   Color
	color      Color
}

// EmitterConfig controls how particles are spawned and behave.
type EmitterConfig struct {
	// MaxParticles is the pool size. New particles are silently dropped when full.
	MaxParticles int
	// EmitRate is the number of particles spawned per second.
	EmitRate float32
	// Lifetime is the range of particle lifetimes in seconds.
	Lifetime Range
	// Speed is the range of initial particle speeds in world units per second.
	Speed Range
	// Direction is the axis particles are launched along. Zero means +Y.
	Direction mgl32.Vec3
	// Spread is the maximum angle in radians between a particle's launch
	// direction and Direction.
	Spread float32
	// StartScale is the range of scale factors at birth, interpolated to EndScale over lifetime.
	StartScale Range
	// EndScale is the range of scale factors at death.
	EndScale Range
	// StartAlpha is the range of alpha values at birth, interpolated to EndAlpha over lifetime.
	StartAlpha Range
	// EndAlpha is the range of alpha values at death.
	EndAlpha Range
	// Gravity is the constant acceleration applied to all particles.
	Gravity mgl32.Vec3
	// StartColor is the tint at birth, interpolated to EndColor over lifetime.
	StartColor Color
	// EndColor is the tint at death.
	EndColor Color
	// Size is the world-space edge length of a particle quad at scale 1.
	Size float32
	// Texture is drawn on each particle quad. Nil draws solid quads.
	Texture *Resource
	// WorldSpace, when true, causes particles to keep their world position
	// once emitted rather than following the emitter node.
	WorldSpace bool
}

// ParticleEmitter manages a pool of particles with CPU-based simulation.
type ParticleEmitter struct {
	config    EmitterConfig
	particles []particle
	alive     int
	emitAccum float32
	active    bool
	// The emitter's world position from the last update, so world-space
	// particles can be spawned at world coords.
	worldPos mgl32.Vec3
}

// newParticleEmitter creates a ParticleEmitter with a preallocated pool.
func newParticleEmitter(cfg EmitterConfig) *ParticleEmitter {
	max := cfg.MaxParticles
	if max <= 0 {
		max = 128
	}
	return &ParticleEmitter{
		config:    cfg,
		particles: make([]particle, max),
	}
}

// NewParticleEmitter creates an emitter node. The emitter starts stopped;
// call node.Emitter.Start to begin emitting.
func NewParticleEmitter(name string, cfg EmitterConfig) *Node {
	n := newNode(name, NodeKindEmitter, nil, nil, cfg.Texture)
	n.Emitter = newParticleEmitter(cfg)
	n.RenderLayer = 1
	return n
}

// Start begins emitting particles.
func (e *ParticleEmitter) Start() {
	e.active = true
}

// Stop stops emitting new particles. Existing particles continue to live out.
func (e *ParticleEmitter) Stop() {
	e.active = false
}

// Reset stops emitting and kills all alive particles.
func (e *ParticleEmitter) Reset() {
	e.active = false
	e.alive = 0
	e.emitAccum = 0
}

// IsActive reports whether the emitter is currently emitting new particles.
func (e *ParticleEmitter) IsActive() bool {
	return e.active
}

// AliveCount returns the number of alive particles.
func (e *ParticleEmitter) AliveCount() int {
	return e.alive
}

// Config returns a pointer to the emitter's config for live tuning.
func (e *ParticleEmitter) Config() *EmitterConfig {
	return &e.config
}

// updateEmitter resolves the emitter node's transform, then simulates.
func updateEmitter(n *Node, ctx *UpdateContext) {
	updatePlain(n)
	if n.Emitter == nil {
		return
	}
	n.Emitter.worldPos = n.WorldPosition()
	n.Emitter.update(ctx.Dt)
}

// update advances particle simulation by dt seconds.
func (e *ParticleEmitter) update(dt float32) {
	g := e.config.Gravity.Mul(dt)

	// Update existing particles, swap-remove dead ones.
	i := 0
	for i < e.alive {
		p := &e.particles[i]
		p.life -= dt
		if p.life <= 0 {
			e.alive--
			e.particles[i] = e.particles[e.alive]
			continue
		}

		p.vel = p.vel.Add(g)
		p.pos = p.pos.Add(p.vel.Mul(dt))

		t := 1 - p.life/p.maxLife
		p.scale = lerp32(p.startScale, p.endScale, t)
		p.alpha = lerp32(p.startAlpha, p.endAlpha, t)
		p.color = lerpColor(p.startColor, p.endColor, t)

		i++
	}

	// Emit new particles.
	if e.active && e.config.EmitRate > 0 {
		e.emitAccum += e.config.EmitRate * dt
		for e.emitAccum >= 1.0 {
			e.emitAccum -= 1.0
			if e.alive < len(e.particles) {
				e.spawnParticle()
			}
		}
	}
}

// spawnParticle initializes the particle at slot e.alive and increments alive.
func (e *ParticleEmitter) spawnParticle() {
	p := &e.particles[e.alive]

	dir := coneDirection(e.config.Direction, e.config.Spread)
	p.vel = dir.Mul(e.config.Speed.Random())

	if e.config.WorldSpace {
		p.pos = e.worldPos
	} else {
		p.pos = mgl32.Vec3{}
	}

	p.life = e.config.Lifetime.Random()
	if p.life <= 0 {
		p.life = 1.0
	}
	p.maxLife = p.life

	p.startScale = e.config.StartScale.Random()
	p.endScale = e.config.EndScale.Random()
	p.scale = p.startScale

	p.startAlpha = e.config.StartAlpha.Random()
	p.endAlpha = e.config.EndAlpha.Random()
	p.alpha = p.startAlpha

	p.startColor = e.config.StartColor
	p.endColor = e.config.EndColor
	p.color = p.startColor

	e.alive++
}

// coneDirection returns a random unit vector within spread radians of axis.
func coneDirection(axis mgl32.Vec3, spread float32) mgl32.Vec3 {
	if axis.Len() < 1e-6 {
		axis = mgl32.Vec3{0, 1, 0}
	}
	axis = axis.Normalize()
	if spread <= 0 {
		return axis
	}
	cosMax := float32(math.Cos(float64(spread)))
	z := 1 - rand.Float32()*(1-cosMax)
	r := float32(math.Sqrt(float64(1 - z*z)))
	sin, cos := math.Sincos(rand.Float64() * 2 * math.Pi)

	var u mgl32.Vec3
	if axis.X() < 0.9 && axis.X() > -0.9 {
		u = axis.Cross(mgl32.Vec3{1, 0, 0}).Normalize()
	} else {
		u = axis.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	}
	v := axis.Cross(u)
	return u.Mul(r * float32(cos)).Add(v.Mul(r * float32(sin))).Add(axis.Mul(z))
}

// lerp32 linearly interpolates between a and b by t.
func lerp32(a, b, t float32) float32 {
	return a + (b-a)*t
}

func lerpColor(a, b Color, t float32) Color {
	return Color{
		R: lerp32(a.R, b.R, t),
		G: lerp32(a.G, b.G, t),
		B: lerp32(a.B, b.B, t),
		A: lerp32(a.A, b.A, t),
	}
}
