// Package ordering maps sort keys to strict total orders over imported items.
//
// Every comparator breaks ties with the collated name, then the raw name, then
// the import index, so sorting is deterministic and idempotent. Descending
// keys are the exact negation of their ascending counterparts.
package ordering
