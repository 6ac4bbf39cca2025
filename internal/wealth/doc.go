// Package wealth derives net worth, implied spending, savings rate and asset
// allocation from monthly wealth snapshots.
//
// Everything in this package is pure: functions take values, return values
// and never touch storage. Missing data is reported as absent (ok == false or
// a nil pointer), never as zero.
package wealth
