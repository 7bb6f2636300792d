// Package order contains the DeliveryOrder aggregate: the record that drives
// one customer purchase from creation through dispatch, competition,
// assignment and delivery. The Status type is the single authority on legal
// lifecycle transitions; no other component branches on raw status values.
package order
