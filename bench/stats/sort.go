package stats

// insertionSortThreshold is the cutover point between insertion sort and
// heapsort. Quicksort is never used: its pivot choice is not fixed by any
// interface this package exposes, and the contract requires a
// deterministic sort across platforms.
const insertionSortThreshold = 64

// Sort orders data ascending in place, deterministically: insertion sort
// for small inputs, heapsort otherwise.
func Sort(data []int64) {
	if len(data) <= insertionSortThreshold {
		insertionSort(data)
		return
	}
	heapSort(data)
}

func insertionSort(data []int64) {
	for i := 1; i < len(data); i++ {
		key := data[i]
		j := i - 1
		for j >= 0 && data[j] > key {
			data[j+1] = data[j]
			j--
		}
		data[j+1] = key
	}
}

func heapSort(data []int64) {
	n := len(data)
	for i := n/2 - 1; i >= 0; i-- {
		siftDown(data, i, n)
	}
	for end := n - 1; end > 0; end-- {
		data[0], data[end] = data[end], data[0]
		siftDown(data, 0, end)
	}
}

func siftDown(data []int64, root, n int) {
	for {
		largest := root
		left := 2*root + 1
		right := 2*root + 2
		if left < n && data[left] > data[largest] {
			largest = left
		}
		if right < n && data[right] > data[largest] {
			largest = right
		}
		if largest == root {
			return
		}
		data[root], data[largest] = data[largest], data[root]
		root = largest
	}
}
