package history_test

import (
	"fmt"

	"github.com/matzehuels/repostory/pkg/history"
	"github.com/matzehuels/repostory/pkg/story"
)

func ExampleChronological() {
	// git log --date-order output, newest first. B and C share a timestamp.
	log := []story.Commit{
		{Hash: "c", Time: 20, Parents: []string{"b"}},
		{Hash: "b", Time: 20, Parents: []string{"a"}},
		{Hash: "a", Time: 10},
	}
	for _, c := range history.Chronological(log) {
		fmt.Println(c.Hash, c.Time)
	}
	// Output:
	// a 10
	// c 20
	// b 20
}
