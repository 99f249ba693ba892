// Package task provides background task processing: a worker-pool runner
// backed by a persistent task store, with recovery of interrupted tasks
// at startup and periodic reset of stuck tasks. The one task type today
// is the deck CSV import.
package task
