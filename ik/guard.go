package ik

// EndEffectorGuard is the scoped object of spec.md SS4.D. It toggles
// end-effector link and grabbed-body enable state according to the flags a
// Solve* call was given, and guarantees restoration of whatever it touched
// when Close is called -- even on error or Quit exit paths. This is the
// mechanism behind invariant 4 (spec.md SS3).
type EndEffectorGuard struct {
	robot            Robot
	childLinks       []string
	independentLinks []string
	flags            Flags

	snapshotTaken  bool
	linkEnabled    map[string]bool
	bodyEnabled    map[string]bool

	eeCollisionChecked bool
}

// NewEndEffectorGuard constructs a guard for one Solve* call. It performs no
// robot mutation until the first SetSelfCollisionState/
// SetEnvironmentCollisionState call.
func NewEndEffectorGuard(robot Robot, childLinks, independentLinks []string, flags Flags) *EndEffectorGuard {
	return &EndEffectorGuard{
		robot:            robot,
		childLinks:       childLinks,
		independentLinks: independentLinks,
		flags:            flags,
	}
}

func (g *EndEffectorGuard) snapshot() {
	if g.snapshotTaken {
		return
	}
	g.snapshotTaken = true
	g.linkEnabled = make(map[string]bool, len(g.childLinks))
	for _, link := range g.childLinks {
		g.linkEnabled[link] = g.robot.LinkEnabled(link)
	}
	g.bodyEnabled = make(map[string]bool)
	for _, body := range g.robot.GrabbedBodies() {
		g.bodyEnabled[body] = g.robot.GrabbedBodyEnabled(body)
	}
}

// SetSelfCollisionState puts the robot into self-collision checking mode. If
// IgnoreEndEffectorCollisions is set, the child links and grabbed bodies --
// disabled for environment checks -- are re-enabled here, and a collision
// callback is installed that ignores any pair where one link is a child
// link and the other is independent, so end-effector/environment collisions
// cannot be reintroduced through the self-collision path.
func (g *EndEffectorGuard) SetSelfCollisionState() (CollisionCallback, error) {
	g.snapshot()
	if err := g.robot.SetSelfCollisionMode(); err != nil {
		return nil, err
	}

	if !g.flags.has(IgnoreEndEffectorCollisions) {
		return nil, nil
	}

	for _, link := range g.childLinks {
		if err := g.robot.SetLinkEnabled(link, true); err != nil {
			return nil, err
		}
	}
	for body := range g.bodyEnabled {
		if err := g.robot.SetGrabbedBodyEnabled(body, true); err != nil {
			return nil, err
		}
	}

	return g.ignoreChildIndependentPairs, nil
}

// SetEnvironmentCollisionState puts the robot into environment-collision
// checking mode. If IgnoreEndEffectorCollisions is set, child links and
// grabbed bodies are disabled so they cannot register an environment
// collision.
func (g *EndEffectorGuard) SetEnvironmentCollisionState() error {
	g.snapshot()
	if err := g.robot.SetEnvironmentCollisionMode(); err != nil {
		return err
	}
	if !g.flags.has(IgnoreEndEffectorCollisions) {
		return nil
	}
	for _, link := range g.childLinks {
		if err := g.robot.SetLinkEnabled(link, false); err != nil {
			return err
		}
	}
	for body := range g.bodyEnabled {
		if err := g.robot.SetGrabbedBodyEnabled(body, false); err != nil {
			return err
		}
	}
	return nil
}

func (g *EndEffectorGuard) ignoreChildIndependentPairs(pair CollisionPair) CollisionVerdict {
	if isChildIndependentPair(pair, g.childLinks, g.independentLinks) {
		return CollisionIgnore
	}
	return CollisionDefault
}

func isChildIndependentPair(pair CollisionPair, childLinks, independentLinks []string) bool {
	aChild, bChild := contains(childLinks, pair.LinkA), contains(childLinks, pair.LinkB)
	aIndep, bIndep := contains(independentLinks, pair.LinkA), contains(independentLinks, pair.LinkB)
	return (aChild && bIndep) || (bChild && aIndep)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// MarkEndEffectorCollisionChecked records that end-effector collision has
// been checked this Solve* call; the validator consults this to ensure
// QuitEndEffectorCollision fires at most once per call (spec.md SS8).
func (g *EndEffectorGuard) MarkEndEffectorCollisionChecked() {
	g.eeCollisionChecked = true
}

// EndEffectorCollisionChecked reports whether end-effector collision has
// already been checked this call.
func (g *EndEffectorGuard) EndEffectorCollisionChecked() bool {
	return g.eeCollisionChecked
}

// Close restores every link and grabbed-body enable state this guard
// touched. It is safe to call multiple times and safe to call even if no
// snapshot was ever taken.
func (g *EndEffectorGuard) Close() error {
	if !g.snapshotTaken {
		return nil
	}
	var firstErr error
	for link, enabled := range g.linkEnabled {
		if err := g.robot.SetLinkEnabled(link, enabled); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for body, enabled := range g.bodyEnabled {
		if err := g.robot.SetGrabbedBodyEnabled(body, enabled); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	g.snapshotTaken = false
	return firstErr
}
