package probe

// Partition splits total requests across workers. The first total%workers
// workers get one request more than the rest, so the shares always sum to
// total. It returns nil when workers < 1 or total < 0.
func Partition(total, workers int) []int {
	if workers < 1 || total < 0 {
		return nil
	}

	base, extra := total/workers, total%workers
	shares := make([]int, workers)
	for i := range shares {
		shares[i] = base
		if i < extra {
			shares[i]++
		}
	}
	return shares
}
