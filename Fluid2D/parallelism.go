package Fluid2D

import (
	"runtime"
	"sync"

	"github.com/jacksondean17/three-fluid-sim/utils"
)

/*
	Every stage is embarrassingly parallel over cells: each output cell
	depends only on the previous buffer's contents, never on sibling
	cells' new values. Stages shard the grid by row ranges, one goroutine
	per partition.
*/

func NewRowPartition(ProcLimit, Ny int) (pm *utils.PartitionMap) {
	NP := runtime.NumCPU()
	if ProcLimit > 0 && ProcLimit < NP {
		NP = ProcLimit
	}
	pm = utils.NewPartitionMap(NP, Ny)
	return
}

// parallelRows runs work(yMin, yMax) concurrently over the row buckets
// of pm and blocks until all buckets complete.
func parallelRows(pm *utils.PartitionMap, work func(yMin, yMax int)) {
	var wg sync.WaitGroup
	for np := 0; np < pm.ParallelDegree; np++ {
		yMin, yMax := pm.GetBucketRange(np)
		wg.Add(1)
		go func(yMin, yMax int) {
			defer wg.Done()
			work(yMin, yMax)
		}(yMin, yMax)
	}
	wg.Wait()
}
