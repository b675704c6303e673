package extract

import "fmt"

// DesynchronizationError is a region that does not agree with the assembly or
// the score matrix it is extracted with. It means an upstream stage was run
// on different inputs and is fatal for the combination.
type DesynchronizationError struct {
	Contig string
	Region string
	Reason string
}

func (e *DesynchronizationError) Error() string {
	return fmt.Sprintf("region %s on contig %s: %s", e.Region, e.Contig, e.Reason)
}
