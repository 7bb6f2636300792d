// Package courier contains the CourierProfile aggregate: the read-mostly
// record of a registered courier, the zones they serve, and their
// active/blocked standing. Eligibility matching against an order's zone and
// city lives here; selection across couriers is the courier directory's job.
package courier
