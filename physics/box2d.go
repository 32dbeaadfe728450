package physics

import (
	"github.com/ByteArena/box2d"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/systems"
)

// Collision categories. Organisms touch walls and mouths but pass through
// each other.
const (
	catWall uint16 = 1 << iota
	catOrganism
	catMouth
)

// fixtureTag is stored as fixture user data to map contacts back to entities.
type fixtureTag struct {
	e     ecs.Entity
	mouth bool
}

type b2Body struct {
	def      BodyDef
	body     *box2d.B2Body
	fixtures []*box2d.B2Fixture
	motion   components.Motion
}

// Box2D runs organisms as bodies in a Box2D world. Mouths are sensor
// fixtures and overlaps come from the contact listener.
type Box2D struct {
	opts     Options
	world    *box2d.B2World
	listener *sensorListener

	bodies map[ecs.Entity]*b2Body
	order  []ecs.Entity
}

// NewBox2D creates a world with the tank walls and rocks of field as static
// bodies.
func NewBox2D(field *systems.ObstacleField, opts Options) *Box2D {
	if opts.VelocityIters <= 0 {
		opts.VelocityIters = 8
	}
	if opts.PositionIters <= 0 {
		opts.PositionIters = 3
	}

	gravity := box2d.MakeB2Vec2(0.0, 0.0) // seen from above
	world := box2d.MakeB2World(gravity)

	b := &Box2D{
		opts:     opts,
		world:    &world,
		listener: &sensorListener{},
		bodies:   make(map[ecs.Entity]*b2Body),
	}
	b.world.SetContactListener(b.listener)
	if field != nil {
		b.addObstacles(field)
	}
	return b
}

func (b *Box2D) addObstacles(field *systems.ObstacleField) {
	bodydef := box2d.MakeB2BodyDef()
	bodydef.Type = box2d.B2BodyType.B2_staticBody
	walls := b.world.CreateBody(&bodydef)

	w, h := field.Width(), field.Height()
	vertices := []box2d.B2Vec2{
		box2d.MakeB2Vec2(0, 0),
		box2d.MakeB2Vec2(w, 0),
		box2d.MakeB2Vec2(w, h),
		box2d.MakeB2Vec2(0, h),
	}
	chain := box2d.MakeB2ChainShape()
	chain.CreateLoop(vertices, len(vertices))
	fd := box2d.MakeB2FixtureDef()
	fd.Shape = &chain
	fd.Filter.CategoryBits = catWall
	fd.Filter.MaskBits = catOrganism
	walls.CreateFixtureFromDef(&fd)

	for _, rock := range field.Rocks() {
		rd := box2d.MakeB2BodyDef()
		rd.Type = box2d.B2BodyType.B2_staticBody
		rd.Position.Set(rock.Center.X, rock.Center.Y)
		body := b.world.CreateBody(&rd)

		shape := box2d.MakeB2CircleShape()
		shape.SetRadius(rock.Radius)
		rfd := box2d.MakeB2FixtureDef()
		rfd.Shape = &shape
		rfd.Filter.CategoryBits = catWall
		rfd.Filter.MaskBits = catOrganism
		body.CreateFixtureFromDef(&rfd)
	}
}

// Add implements Integrator.
func (b *Box2D) Add(e ecs.Entity, def BodyDef) {
	if _, ok := b.bodies[e]; ok {
		return
	}
	if def.Scale <= 0 {
		def.Scale = 1
	}

	bodydef := box2d.MakeB2BodyDef()
	bodydef.Type = box2d.B2BodyType.B2_dynamicBody
	if def.Body.Static {
		bodydef.Type = box2d.B2BodyType.B2_staticBody
	}
	bodydef.Position.Set(def.State.Pos.X, def.State.Pos.Y)
	bodydef.Angle = def.State.Heading
	bodydef.LinearVelocity.Set(def.State.Vel.X, def.State.Vel.Y)
	bodydef.AngularVelocity = def.State.AngVel
	bodydef.AllowSleep = false
	if !def.Body.Driven {
		bodydef.LinearDamping = b.opts.LinearDamping
		bodydef.AngularDamping = b.opts.AngularDamping
	}

	rb := &b2Body{def: def, body: b.world.CreateBody(&bodydef)}
	rb.body.SetUserData(e)
	b.attach(e, rb)
	b.bodies[e] = rb
	b.order = append(b.order, e)
}

// attach creates the body circle and, if the organism has one, the mouth.
func (b *Box2D) attach(e ecs.Entity, rb *b2Body) {
	scale := rb.def.Scale

	shape := box2d.MakeB2CircleShape()
	shape.SetRadius(rb.def.Body.Radius * scale)
	fd := box2d.MakeB2FixtureDef()
	fd.Shape = &shape
	fd.Density = 1.0
	fd.Filter.CategoryBits = catOrganism
	fd.Filter.MaskBits = catWall | catMouth
	fd.UserData = fixtureTag{e: e}
	rb.fixtures = append(rb.fixtures[:0], rb.body.CreateFixtureFromDef(&fd))

	if rb.def.Body.MouthRadius <= 0 {
		return
	}
	mouth := box2d.MakeB2CircleShape()
	mouth.SetRadius(rb.def.Body.MouthRadius * scale)
	mouth.M_p.Set(rb.def.Body.MouthOffset*scale, 0)
	md := box2d.MakeB2FixtureDef()
	md.Shape = &mouth
	md.IsSensor = true
	md.Filter.CategoryBits = catMouth
	md.Filter.MaskBits = catOrganism
	md.UserData = fixtureTag{e: e, mouth: true}
	rb.fixtures = append(rb.fixtures, rb.body.CreateFixtureFromDef(&md))
}

// Remove implements Integrator. Destroying the body ends its contacts, so
// mouths that held it receive an exit.
func (b *Box2D) Remove(e ecs.Entity) {
	rb, ok := b.bodies[e]
	if !ok {
		return
	}
	b.world.DestroyBody(rb.body)
	delete(b.bodies, e)
	b.order = removeEntity(b.order, e)
}

// SetScale implements Integrator by rebuilding the fixtures.
func (b *Box2D) SetScale(e ecs.Entity, scale float64) {
	rb, ok := b.bodies[e]
	if !ok || scale <= 0 || scale == rb.def.Scale {
		return
	}
	for _, f := range rb.fixtures {
		rb.body.DestroyFixture(f)
	}
	rb.def.Scale = scale
	b.attach(e, rb)
}

// Apply implements Integrator.
func (b *Box2D) Apply(e ecs.Entity, m components.Motion) {
	if rb, ok := b.bodies[e]; ok {
		rb.motion = m
	}
}

// State implements Integrator.
func (b *Box2D) State(e ecs.Entity) (State, bool) {
	rb, ok := b.bodies[e]
	if !ok {
		return State{}, false
	}
	p := rb.body.GetPosition()
	v := rb.body.GetLinearVelocity()
	return State{
		Pos:     r2.Vec{X: p.X, Y: p.Y},
		Vel:     r2.Vec{X: v.X, Y: v.Y},
		Heading: normalizeAngle(rb.body.GetAngle()),
		AngVel:  rb.body.GetAngularVelocity(),
	}, true
}

// Len implements Integrator.
func (b *Box2D) Len() int {
	return len(b.order)
}

// DrainEvents implements Integrator.
func (b *Box2D) DrainEvents(dst []systems.SensorEvent) []systems.SensorEvent {
	dst = append(dst, b.listener.events...)
	b.listener.events = b.listener.events[:0]
	return dst
}

// Step implements Integrator. Motion requests are accelerations, so they
// are scaled by mass and inertia before reaching Box2D.
func (b *Box2D) Step(dt float64) {
	for _, e := range b.order {
		rb := b.bodies[e]
		if rb.def.Body.Static {
			continue
		}
		m := rb.motion
		rb.motion.Reset()
		body := rb.body

		if m.Stop {
			body.SetLinearVelocity(box2d.MakeB2Vec2(0, 0))
			body.SetAngularVelocity(0)
			continue
		}
		mass := body.GetMass()
		body.ApplyForceToCenter(box2d.MakeB2Vec2(m.Force.X*mass, m.Force.Y*mass), true)
		body.ApplyTorque(m.Torque*body.GetInertia(), true)
		if m.Impulse != (r2.Vec{}) {
			body.ApplyLinearImpulse(box2d.MakeB2Vec2(m.Impulse.X*mass, m.Impulse.Y*mass), body.GetWorldCenter(), true)
		}
		if m.Damp > 0 {
			v := body.GetLinearVelocity()
			body.SetLinearVelocity(box2d.MakeB2Vec2(v.X*m.Damp, v.Y*m.Damp))
		}
	}

	b.world.Step(dt, b.opts.VelocityIters, b.opts.PositionIters)

	for _, e := range b.order {
		rb := b.bodies[e]
		if rb.def.Body.Static {
			continue
		}
		v := rb.body.GetLinearVelocity()
		if c := clampSpeed(r2.Vec{X: v.X, Y: v.Y}, rb.def.Body.MaxSpeed); c.X != v.X || c.Y != v.Y {
			rb.body.SetLinearVelocity(box2d.MakeB2Vec2(c.X, c.Y))
		}
		w := rb.body.GetAngularVelocity()
		if c := clampTurn(w, rb.def.Body.MaxTurnRate); c != w {
			rb.body.SetAngularVelocity(c)
		}
	}
}

// sensorListener turns mouth contacts into sensor events.
type sensorListener struct {
	events []systems.SensorEvent
}

func (l *sensorListener) BeginContact(contact box2d.B2ContactInterface) { // contact has to be backed by a pointer
	l.record(systems.SensorEnter, contact)
}

func (l *sensorListener) EndContact(contact box2d.B2ContactInterface) {
	l.record(systems.SensorExit, contact)
}

func (l *sensorListener) PreSolve(contact box2d.B2ContactInterface, oldManifold box2d.B2Manifold) {}

func (l *sensorListener) PostSolve(contact box2d.B2ContactInterface, impulse *box2d.B2ContactImpulse) {
}

func (l *sensorListener) record(kind systems.SensorEventKind, contact box2d.B2ContactInterface) {
	a, okA := contact.GetFixtureA().GetUserData().(fixtureTag)
	c, okB := contact.GetFixtureB().GetUserData().(fixtureTag)
	if !okA || !okB || a.mouth == c.mouth || a.e == c.e {
		return
	}
	if c.mouth {
		a, c = c, a
	}
	l.events = append(l.events, systems.SensorEvent{Kind: kind, Sensor: a.e, Candidate: c.e})
}
