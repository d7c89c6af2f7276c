package experiment

import "hash/fnv"

// bucketCount is the number of traffic buckets. 10000 buckets give the
// assignment two decimal places of weight resolution.
const bucketCount = 10000

// bucketVisitor computes a stable bucket for the (experiment, visitor)
// pair using FNV-1a. The experiment key is part of the hash input so the
// same visitor lands in independent buckets across experiments.
func bucketVisitor(experimentKey, visitorID string) int {
	h := fnv.New32a()
	h.Write([]byte(experimentKey + ":" + visitorID))
	return int(h.Sum32() % bucketCount)
}
