package commands

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/lorehash/boorudex/internal/admin"
)

// TagsList prints every monitored tag.
func TagsList(c *cli.Context) error {
	ctl, closeFn, err := buildController(c)
	if err != nil {
		return err
	}
	defer closeFn()

	tags, err := ctl.ListTags(c.Context)
	if err != nil {
		return cli.Exit(fmt.Sprintf("listing tags: %v", err), 1)
	}

	for _, tag := range tags {
		fmt.Println(tag)
	}
	return nil
}

// TagsAdd resolves a tag fragment upstream and begins monitoring it.
func TagsAdd(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: boorudex-admin tags add <fragment>", 1)
	}

	ctl, closeFn, err := buildController(c)
	if err != nil {
		return err
	}
	defer closeFn()

	tag, err := ctl.AddTag(c.Context, c.Args().First())
	if errors.Is(err, admin.ErrTagNotFound) {
		return cli.Exit(fmt.Sprintf("no upstream tag matches %q", c.Args().First()), 1)
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("adding tag: %v", err), 1)
	}

	fmt.Printf("now monitoring: %s\n", tag)
	return nil
}

// TagsRemove stops monitoring a tag.
func TagsRemove(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: boorudex-admin tags remove <tag>", 1)
	}

	ctl, closeFn, err := buildController(c)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := ctl.RemoveTag(c.Context, c.Args().First()); err != nil {
		return cli.Exit(fmt.Sprintf("removing tag: %v", err), 1)
	}

	fmt.Printf("stopped monitoring: %s\n", c.Args().First())
	return nil
}
