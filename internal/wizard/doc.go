// Package wizard models multi-step configuration wizards whose questions
// depend on each other's answers.
//
// A wizard is built bottom-up in two phases. Questions are created first
// and may declare dependencies on other questions. They are then grouped
// into Sections, and the Sections are assembled into a Config. Each
// constructor binds its members exactly once, and NewConfig checks that
// every dependency is declared before its dependent (section order first,
// then question order). Forward, self and cross-config references fail
// construction with ErrUnresolvedDependency.
//
// The package does not prompt. A driver walks Config.Sections in order,
// asks every question whose Ignore is false, and records the answer with
//
//	section.Answers()[question.Name()] = value
//
// Dynamic defaults and ignore rules read earlier answers through the
// Resolver passed to DefaultFunc and IgnoreFunc:
//
//	lbIPs, _ := wizard.NewText("lb_ips", "Load balancer IPs",
//		wizard.DependsOn(external, autoDiscovery),
//		wizard.WithIgnoreFunc(func(r wizard.Resolver) (bool, error) {
//			ext, err := wizard.ResolveBool(r, external)
//			if err != nil || !ext {
//				return true, err
//			}
//			return wizard.ResolveBool(r, autoDiscovery)
//		}))
//
// Reading a dependency that has not been answered yet fails with
// ErrMissingAnswer, which points at a driver that prompted out of order.
package wizard
