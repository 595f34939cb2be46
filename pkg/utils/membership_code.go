package utils

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
)

const MembershipCodePrefix = "OC-"

// CodeGenerator hands out unique, time-ordered membership codes.
type CodeGenerator interface {
	NewMembershipCode() string
}

type snowflakeCodes struct {
	node *snowflake.Node
}

func NewCodeGenerator(nodeID int64) (CodeGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", nodeID, err)
	}
	return &snowflakeCodes{node: node}, nil
}

func (s *snowflakeCodes) NewMembershipCode() string {
	return MembershipCodePrefix + strings.ToUpper(s.node.Generate().Base36())
}
