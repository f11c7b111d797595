/*
Package cash defines a simple wallet ledger.

Each account is keyed by address and holds a single balance. The
Controller is the only place balances change, so every movement of
funds is a paired subtract and add inside one transactional store.
Handlers for offers hold funds in custody by moving them to a derived
account no key controls, and release them the same way.
*/
package cash
