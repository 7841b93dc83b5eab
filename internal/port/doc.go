// Package port checks host port availability.
//
// Generators use it through the freePort template function to pick a
// default listen port that nothing on the machine is bound to yet. The
// check asks the OS directly with net.Listen / net.ListenPacket rather than
// parsing /proc/net or calling lsof, which may need elevated permissions.
package port
