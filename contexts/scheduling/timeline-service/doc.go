// Package timelineservice unifies the studio's heterogeneous schedulable
// records (scheduled events, due tasks, journal entries, and confirmed
// meeting bookings) into one canonical, tenant-scoped timeline.
//
// The module owns source normalization, range/filter aggregation, and the
// iCalendar export surface. Source records are read-only here; their mutation
// belongs to the surrounding CRUD layer behind the record store ports.
package timelineservice
