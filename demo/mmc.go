package demo

import "github.com/steveyeoks/o2des-go/o2des"

// MMcQueuePull wires a Generator, a Queue, and a Server into an M/M/c
// queueing model with pull-based dispatch: the server pulls the next
// pending load itself on finish, rather than the queue pushing it.
type MMcQueuePull struct {
	*o2des.Sandbox

	Capacity          int
	HourlyArrivalRate float64
	HourlyServiceRate float64

	Generator *Generator
	Queue     *Queue
	Server    *Server
}

// NewMMcQueuePull constructs the composite model as a root Sandbox, wiring
// the same event-bus subscriptions the original demo establishes:
// generation fans out to both the queue and the server's admission, and a
// load starting service is dequeued.
func NewMMcQueuePull(capacity int, hourlyArrivalRate, hourlyServiceRate float64, seed int64) *MMcQueuePull {
	root := o2des.NewSandbox(seed, "mmc_queue_pull")

	generator := NewGenerator(hourlyArrivalRate)
	queue := NewQueue()
	server := NewServer(capacity, hourlyServiceRate)

	root.AddChild(generator.Sandbox)
	root.AddChild(queue.Sandbox)
	root.AddChild(server.Sandbox)

	generator.OnGenerate.Add(queue.Enqueue)
	generator.OnGenerate.Add(server.RequestToStart)
	server.OnStart.Add(queue.Dequeue)

	return &MMcQueuePull{
		Sandbox:           root,
		Capacity:          capacity,
		HourlyArrivalRate: hourlyArrivalRate,
		HourlyServiceRate: hourlyServiceRate,
		Generator:         generator,
		Queue:             queue,
		Server:            server,
	}
}
