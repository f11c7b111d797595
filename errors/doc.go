/*
Package errors implements coded errors.

Every error in the application must wrap one of the root errors declared
here, or one registered by an extension package via Register. This allows
testing errors by kind with Is and translating them into transport level
responses without string matching.
*/
package errors
