// Package product contains the ProductInventory aggregate. Stock is
// partitioned by (version × size): a product may carry named versions, each
// owning its own size table, a flat size table without versions, or a plain
// counter. The aggregate stock and the isActive flag are derived from the
// partitions and recomputed after every reservation or release; order
// processing code never writes stock fields directly.
package product
