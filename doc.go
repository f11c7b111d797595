/*
Package escrowd defines the common interfaces that tie the service together:
key-value storage with cache-wrap savepoints, addresses and conditions,
messages, handlers and dispatch results.

The actual business logic lives in the x/... extension packages. The root
package carries no state and no policy, only contracts.
*/
package escrowd
