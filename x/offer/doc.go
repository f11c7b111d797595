/*
Package offer implements the escrowed offer lifecycle.

A creator locks a payment for a named recipient. The funds move into a
custody account derived from the offer key, an account no external key
controls. Exactly one of two settlements follows: the creator cancels
and is refunded, or the recipient accepts and is paid. Offers are
ledger entries: once written they are never deleted and only the
status field ever changes, exactly once.
*/
package offer
