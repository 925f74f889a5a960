package main

import (
	"fmt"
	"math/rand"

	"github.com/TheBitDrifter/depot"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// restEvery is how often, in remaining ticks, an agent toggles between moving and resting
const restEvery = 30

type Stats struct {
	Ticks   int
	Spawned int
	Expired int
	Moved   int
	Toggled int
}

type simulation struct {
	cfg    Config
	reg    *depot.Registry
	logger zerolog.Logger
	rng    *rand.Rand

	names    *depot.EntityCache
	nameKeys []string

	movers *depot.View
	agers  *depot.View

	stats Stats
}

func newSimulation(cfg Config, logger zerolog.Logger) (*simulation, error) {
	reg, err := depot.Factory.NewRegistry(
		components(),
		depot.WithLogger(logger),
		depot.WithInitialCapacity(cfg.Entities),
	)
	if err != nil {
		return nil, err
	}
	movers, err := reg.View(depot.Factory.NewQuery().And(transformComponent, motionComponent).Not(restingComponent))
	if err != nil {
		return nil, err
	}
	agers, err := reg.View(depot.Factory.NewQuery().And(lifetimeComponent))
	if err != nil {
		return nil, err
	}

	s := &simulation{
		cfg:    cfg,
		reg:    reg,
		logger: logger,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		names:  depot.FactoryNewEntityCache(cfg.Named),
		movers: movers,
		agers:  agers,
	}
	for i := 0; i < cfg.Named; i++ {
		s.nameKeys = append(s.nameKeys, fmt.Sprintf("agent-%d", i))
	}
	if err := s.populate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *simulation) randomVec() mgl64.Vec3 {
	return mgl64.Vec3{s.rng.Float64()*2 - 1, s.rng.Float64()*2 - 1, s.rng.Float64()*2 - 1}
}

func (s *simulation) spawn() error {
	e := s.reg.Create()
	if _, err := transformComponent.Attach(s.reg, e, Transform{Position: s.randomVec().Mul(100)}); err != nil {
		return err
	}
	if _, err := motionComponent.Attach(s.reg, e, Motion{Velocity: s.randomVec()}); err != nil {
		return err
	}
	if _, err := lifetimeComponent.Attach(s.reg, e, Lifetime{Remaining: 1 + s.rng.Intn(s.cfg.Lifetime)}); err != nil {
		return err
	}
	s.stats.Spawned++

	// First free name goes to the newcomer
	for _, key := range s.nameKeys {
		if _, taken := s.names.Lookup(s.reg, key); taken {
			continue
		}
		if _, err := agentComponent.Attach(s.reg, e, Agent{ID: uuid.New(), Name: key}); err != nil {
			return err
		}
		return s.names.Register(key, e)
	}
	return nil
}

// populate refills the registry up to the configured population
func (s *simulation) populate() error {
	for s.reg.Size() < s.cfg.Entities {
		if err := s.spawn(); err != nil {
			return err
		}
	}
	return nil
}

func (s *simulation) move() error {
	return s.movers.Each(func(cursor *depot.Cursor) bool {
		transform := transformComponent.GetFromCursor(cursor)
		motion := motionComponent.GetFromCursor(cursor)
		transform.Position = transform.Position.Add(motion.Velocity)
		s.stats.Moved++
		return true
	})
}

func (s *simulation) age() error {
	var queueErr error
	err := s.agers.Each(func(cursor *depot.Cursor) bool {
		e := cursor.Entity()
		lifetime := lifetimeComponent.GetFromCursor(cursor)
		lifetime.Remaining--

		switch {
		case lifetime.Remaining <= 0:
			queueErr = s.reg.EnqueueDestroy(e)
			s.stats.Expired++
		case lifetime.Remaining%restEvery == 0:
			if restingComponent.Check(s.reg, e) {
				queueErr = restingComponent.EnqueueDetach(s.reg, e)
			} else {
				queueErr = restingComponent.EnqueueAttach(s.reg, e, Resting{})
			}
			s.stats.Toggled++
		}
		return queueErr == nil
	})
	if queueErr != nil {
		return queueErr
	}
	return err
}

func (s *simulation) Tick() error {
	if err := s.move(); err != nil {
		return err
	}
	if err := s.age(); err != nil {
		return err
	}
	s.stats.Ticks++
	return s.populate()
}

func (s *simulation) Run(ticks int) error {
	for i := 0; i < ticks; i++ {
		if err := s.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// Agent returns the live entity carrying name, if any
func (s *simulation) Agent(name string) (depot.Entity, bool) {
	return s.names.Lookup(s.reg, name)
}

func (s *simulation) report() {
	depot.LogRegistry(&s.logger, s.reg, zerolog.InfoLevel)
	for _, key := range s.nameKeys {
		e, ok := s.Agent(key)
		if !ok {
			continue
		}
		depot.LogEntity(&s.logger, s.reg, e, zerolog.DebugLevel)
		agent, err := agentComponent.GetFromEntity(s.reg, e)
		if err != nil {
			s.logger.Warn().Err(err).Str("name", key).Msg("named agent lost its identity")
			continue
		}
		transform, err := transformComponent.GetFromEntity(s.reg, e)
		if err != nil {
			continue
		}
		s.logger.Info().
			Str("name", agent.Name).
			Str("id", agent.ID.String()).
			Floats64("position", transform.Position[:]).
			Msg("agent")
	}
	s.logger.Info().
		Int("ticks", s.stats.Ticks).
		Int("spawned", s.stats.Spawned).
		Int("expired", s.stats.Expired).
		Int("moved", s.stats.Moved).
		Int("toggled", s.stats.Toggled).
		Msg("simulation finished")
}
