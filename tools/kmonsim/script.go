package main

import (
	"fmt"
	"kmon/device/video/console"
	"kmon/kernel/monitor"

	lua "github.com/yuin/gopher-lua"
)

// runScript executes the lua script at path. Scripts drive the monitor
// through the following globals:
//   - run(line) runs a command line and returns the command result.
//   - scheme() returns the active console color scheme.
func runScript(m *monitor.Monitor, path string) error {
	L := lua.NewState()
	defer L.Close()

	L.SetGlobal("run", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(m.RunCommand(L.CheckString(1))))
		return 1
	}))
	L.SetGlobal("scheme", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(console.ActiveColorScheme()))
		return 1
	}))

	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
