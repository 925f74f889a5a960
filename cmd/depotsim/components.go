package main

import (
	"github.com/TheBitDrifter/depot"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

type Transform struct {
	Position mgl64.Vec3
}

type Motion struct {
	Velocity mgl64.Vec3
}

// Agent identifies an entity across respawns
type Agent struct {
	ID   uuid.UUID
	Name string
}

type Lifetime struct {
	Remaining int
}

// Resting agents are skipped by the movement system
type Resting struct{}

var (
	transformComponent = depot.FactoryNewComponent[Transform]()
	motionComponent    = depot.FactoryNewComponent[Motion]()
	agentComponent     = depot.FactoryNewComponent[Agent]()
	lifetimeComponent  = depot.FactoryNewComponent[Lifetime]()
	restingComponent   = depot.FactoryNewComponent[Resting]()
)

func components() []depot.Component {
	return []depot.Component{
		transformComponent,
		motionComponent,
		agentComponent,
		lifetimeComponent,
		restingComponent,
	}
}
