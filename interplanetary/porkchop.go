package interplanetary

import (
	"github.com/orbitalarena/trajx/body"
	"github.com/orbitalarena/trajx/lambert"
)

// PorkchopCell is one grid point of a porkchop plot, per spec §4.10.
type PorkchopCell struct {
	DepartJD, ArriveJD float64
	Valid              bool
	C3                 float64
	TotalDeltaV        float64
}

// Porkchop builds a regular grid of (launch, arrival) pairs between
// departJDs and arriveJDs, flagging arrival<=launch pairs invalid and
// computing C3 plus total Δv (parking-orbit departure + capture) for the
// rest, per spec §4.10.
func Porkchop(from, to body.ID, departJDs, arriveJDs []float64, dir lambert.Direction, rParkFrom, muFrom, rParkTo, muTo float64) [][]PorkchopCell {
	grid := make([][]PorkchopCell, len(departJDs))
	for i, dep := range departJDs {
		row := make([]PorkchopCell, len(arriveJDs))
		for j, arr := range arriveJDs {
			if arr <= dep {
				row[j] = PorkchopCell{DepartJD: dep, ArriveJD: arr, Valid: false}
				continue
			}
			transfer := SolveTransfer(from, to, dep, arr, dir)
			if !transfer.Lambert.Valid {
				row[j] = PorkchopCell{DepartJD: dep, ArriveJD: arr, Valid: false}
				continue
			}
			depDv := ParkingDeltaV(transfer.VInfDepart.Norm(), rParkFrom, muFrom)
			arrDv := ParkingDeltaV(transfer.VInfArrive.Norm(), rParkTo, muTo)
			row[j] = PorkchopCell{
				DepartJD: dep, ArriveJD: arr, Valid: true,
				C3: transfer.C3, TotalDeltaV: depDv + arrDv,
			}
		}
		grid[i] = row
	}
	return grid
}
