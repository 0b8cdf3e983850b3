package shm

func OverloadRoot(dir string) func() {
	rootRef := root
	root = dir
	return func() { root = rootRef }
}
