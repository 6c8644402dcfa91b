// File: utils/constants.go
package utils

// DayCachePrefix is the prefix used for Redis day document cache keys.
const DayCachePrefix = "timetable:day:"

// ClassesField is the single field every timetable document carries.
const ClassesField = "classes"

// LegacyClassesField is accepted on read for documents written by older tools.
const LegacyClassesField = "timetable"
