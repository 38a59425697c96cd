// Package device decodes signal-log rows for each supported headset family.
//
// An Adapter validates a signal log's header row and turns every data row
// into a Sample whose channel values follow the family's fixed order. The set
// of families is closed: adding a headset means adding one adapter and
// registering it in the lookup table, nothing else.
package device
