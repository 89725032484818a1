package queue

import "testing"

func TestPushPopOrder(t *testing.T) {
	q := NewQueue(4)

	for i := 0; i < 4; i++ {
		if !q.Push(i) {
			t.Fatal("push failed at", i)
		}
	}
	if q.Push(99) {
		t.Error("push on full queue succeeded")
	}

	for i := 0; i < 4; i++ {
		if v := q.Pop().(int); v != i {
			t.Error("wrong order: expected", i, "got", v)
		}
	}
	if q.Pop() != nil {
		t.Error("pop on empty queue returned element")
	}
}

// The queue must behave correctly when front/back roll over the array end.
func TestRollover(t *testing.T) {
	q := NewQueue(3)

	q.Push(1)
	q.Push(2)
	q.Pop()
	q.Push(3)
	q.Push(4)

	if q.Len() != 3 {
		t.Fatal("wrong length after rollover:", q.Len())
	}

	for _, want := range []int{2, 3, 4} {
		if v := q.Pop().(int); v != want {
			t.Error("expected", want, "got", v)
		}
	}
}

func TestPeek(t *testing.T) {
	q := NewQueue(2)

	if q.Peek() != nil {
		t.Error("peek on empty queue returned element")
	}

	q.Push("a")
	q.Push("b")

	if q.Peek().(string) != "a" || q.Len() != 2 {
		t.Error("peek must not remove the front element")
	}
}
