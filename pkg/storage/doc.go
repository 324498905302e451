/*
Package storage provides the Manager that actors use to share named values during a flow.

The Manager wraps a ports.StorageBackend and serializes access per storage name: two actors
updating the same name never interleave their read-modify-write cycles, while unrelated names
proceed independently. When a DistributedLocker is configured the critical section also spans
engine instances.
*/
package storage
