package pricing

type LibraryOption func(*Library)

func WithPaths(paths int) LibraryOption {
	return func(l *Library) {
		l.simulation.Paths = paths
	}
}

func WithSeed(seed int64) LibraryOption {
	return func(l *Library) {
		l.simulation.Seed = seed
	}
}

func WithWorkers(workers int) LibraryOption {
	return func(l *Library) {
		l.simulation.Workers = workers
	}
}

// WithTolerance enables the non-convergence check; zero disables it.
func WithTolerance(stdErr float64) LibraryOption {
	return func(l *Library) {
		l.simulation.Tolerance = stdErr
	}
}

func WithMinSteps(steps int) LibraryOption {
	return func(l *Library) {
		l.simulation.MinSteps = steps
	}
}

func WithStepsPerYear(steps int) LibraryOption {
	return func(l *Library) {
		l.simulation.StepsPerYear = steps
	}
}

// WithMonteCarlo values vanilla and single-barrier legs by simulation instead
// of their closed forms.
func WithMonteCarlo() LibraryOption {
	return func(l *Library) {
		l.forceMonteCarlo = true
	}
}
