package workspace

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/nexushq/nexus-core/pkg/schema"
)

// StageAnnouncement is the one cross-entity side effect in the pipeline: a
// transition into WON derives exactly one synthetic announcement for the
// workspace. It is a pure function of (old, next); saving a contact that is
// already WON derives nothing, which is what makes the broadcast exactly-once.
func StageAnnouncement(old, next schema.Stage, c schema.Contact, actorName string) (string, bool) {
	if old == schema.StageWon || next != schema.StageWon {
		return "", false
	}
	value := "$" + humanize.CommafWithDigits(c.Value, 2)
	content := fmt.Sprintf(
		"🎉 **CONGRATULATIONS TEAM!** 🎉\n\nThe contract with **%s** is closed!\nValue: **%s**\nClosed by: %s",
		c.Company, value, actorName,
	)
	return content, true
}
