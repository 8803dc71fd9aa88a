// Package workpool drains a preloaded work queue with a fixed set of workers.
//
// Workers loop on a timed dequeue so an idle worker exits on its own once the
// queue is drained. Cancellation is observed before claiming new work only;
// an item already handed to the callback runs to completion. A monitor
// goroutine samples progress on a fixed interval rather than per item.
package workpool
