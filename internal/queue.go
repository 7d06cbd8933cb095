package internal

// EffectQueue holds observer calls waiting for the derived pass to finish.
type EffectQueue struct {
	effects []func()
}

func NewEffectQueue() *EffectQueue {
	return &EffectQueue{
		effects: make([]func(), 0),
	}
}

func (q *EffectQueue) Len() int { return len(q.effects) }

func (q *EffectQueue) Enqueue(fn func()) {
	q.effects = append(q.effects, fn)
}

// Run executes the queued effects in commit order.
// Effects enqueued while running wait for the next call.
func (q *EffectQueue) Run(before func()) {
	effects := q.effects
	q.effects = make([]func(), 0, len(effects))

	for _, effect := range effects {
		if before != nil {
			before()
		}
		effect()
	}
}

func (q *EffectQueue) Clear() {
	q.effects = q.effects[:0]
}

// SettledQueue holds callbacks run once every tick has settled.
type SettledQueue struct {
	callbacks []func()
}

func NewSettledQueue() *SettledQueue {
	return &SettledQueue{
		callbacks: make([]func(), 0),
	}
}

func (q *SettledQueue) Add(fn func()) {
	q.callbacks = append(q.callbacks, fn)
}

func (q *SettledQueue) Run() {
	for _, cb := range q.callbacks {
		cb()
	}
}
