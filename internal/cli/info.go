package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmot-dev/marmot/pkg/platform"
)

// infoCommand creates the info command showing project metadata and the
// resolved dependency sets for a platform.
func (c *CLI) infoCommand() *cobra.Command {
	var platformFlag string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show project metadata and resolved dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject()
			if err != nil {
				return err
			}

			plat, err := resolvePlatform(platformFlag)
			if err != nil {
				return err
			}
			if !slices.Contains(p.Platforms(), plat) {
				printWarning("%s is not in the project's platform list", plat)
			}

			fmt.Println(StyleTitle.Render(p.Name()))
			if v := p.Version(); v != nil {
				printKeyValue("version", v.String())
			}
			if d := p.Description(); d != "" {
				printKeyValue("description", d)
			}
			printKeyValue("root", p.Root())
			printKeyValue("channels", strings.Join(p.Channels(), ", "))
			printKeyValue("platforms", joinPlatforms(p.Platforms()))
			printNewline()

			printInfo("Dependencies for %s", StyleHighlight.Render(plat.String()))
			for _, kind := range platform.SpecKinds {
				deps := p.Dependencies(plat, kind)
				if deps.Len() == 0 {
					continue
				}
				printDetail("%s:", kind.Name())
				deps.Each(func(name, spec string) {
					printDetail("  %s %s", StyleValue.Render(name), StyleDim.Render(spec))
				})
			}
			if pypi := p.PyPiDependencies(plat); pypi.Len() > 0 {
				printDetail("%s:", platform.PyPiDependency.Name())
				pypi.Each(func(name, spec string) {
					printDetail("  %s %s", StyleValue.Render(name), StyleDim.Render(spec))
				})
				printDetail("indexes: %s", strings.Join(p.PyPiIndexURLs(), ", "))
			}

			if vps := p.VirtualPackagesForPlatform(plat); len(vps) > 0 {
				printNewline()
				printInfo("System requirements")
				for _, vp := range vps {
					printDetail("%s", vp.String())
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&platformFlag, "platform", "p", "", "target platform (defaults to the current host)")
	return cmd
}

// resolvePlatform parses the --platform flag, falling back to the host.
func resolvePlatform(flag string) (platform.Platform, error) {
	if flag == "" {
		return platform.Current(), nil
	}
	return platform.Parse(flag)
}

func joinPlatforms(platforms []platform.Platform) string {
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = p.String()
	}
	return strings.Join(names, ", ")
}
