package stream

import "sync"

// EventBuffer - ограниченный кольцевой буфер последних событий.
//
// Единственный буфер потока: при переполнении старейшее событие
// вытесняется, отдельных неограниченных накопителей нет. Snapshot
// возвращает события от новых к старым.
type EventBuffer struct {
	mu       sync.RWMutex
	events   []Event
	capacity int
	head     int // позиция следующей записи
	size     int
}

// NewEventBuffer создаёт буфер заданной ёмкости
func NewEventBuffer(capacity int) *EventBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &EventBuffer{
		events:   make([]Event, capacity),
		capacity: capacity,
	}
}

// Add добавляет событие. Возвращает true, если старое событие
// было вытеснено по ёмкости.
func (b *EventBuffer) Add(evt Event) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	evicted := b.size == b.capacity

	b.events[b.head] = evt
	b.head = (b.head + 1) % b.capacity
	if b.size < b.capacity {
		b.size++
	}

	return evicted
}

// Snapshot возвращает копию содержимого, новые события первыми
func (b *EventBuffer) Snapshot() []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Event, b.size)
	for i := 0; i < b.size; i++ {
		// head-1 - новейшее событие
		idx := (b.head - 1 - i + b.capacity*2) % b.capacity
		out[i] = b.events[idx]
	}
	return out
}

// Filter возвращает события, удовлетворяющие предикату, новые первыми
func (b *EventBuffer) Filter(pred func(Event) bool) []Event {
	snapshot := b.Snapshot()
	out := make([]Event, 0, len(snapshot))
	for _, evt := range snapshot {
		if pred(evt) {
			out = append(out, evt)
		}
	}
	return out
}

// Len возвращает текущее количество событий
func (b *EventBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Capacity возвращает ёмкость буфера
func (b *EventBuffer) Capacity() int {
	return b.capacity
}

// Clear очищает буфер
func (b *EventBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.head = 0
	b.size = 0
}
