// Package bookingservice runs the meeting-slot proposal lifecycle: an owner
// publishes candidate windows behind a shareable tokenized link, a guest
// picks exactly one, and the owner confirms or declines. Racing guest
// selections are resolved by a conditional status write in the repository,
// so precisely one selection wins.
//
// Links expire lazily. Nothing sweeps stale proposals; an expired link is
// simply refused at the point of use while the record stays readable until
// its owner deletes it.
package bookingservice
