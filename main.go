package main

import (
	"github.com/gizmo-platform/driverstation/internal/cmdlets"
)

func main() {
	cmdlets.Entrypoint()
}
