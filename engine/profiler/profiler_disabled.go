//go:build !profile

package profiler

// No-op versions when the "profile" build tag is not set.

const Enabled = false

func Init(frames int) {}

func BeginFrame() func() { return func() {} }

func Start(name string) func() { return func() {} }

func Last() []StageStat { return nil }

func Dump(dir string) (string, error) { return "", nil }
