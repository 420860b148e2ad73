// Package classify derives activated moves from number sets.
//
// A move activates when both numbers of one of its pairings are present.
// For a single person this is [Classifier.DetectMoves]. For two people,
// [Classifier.Categorize] walks every pairing row of the item table and
// places each move into at most one of four categories, evaluated as a
// first-match chain in this fixed order:
//
//  1. Joint: each person holds exactly one side of the pairing, and
//     different sides.
//  2. BothHave: both people hold both sides.
//  3. Person1Synergy: person 1 holds both sides, person 2 exactly one.
//  4. Person2Synergy: person 2 holds both sides, person 1 exactly one.
//
// The order is part of the contract and must not be changed.
//
// [Classifier.ColorNumbers] then assigns every number of each person to one
// bucket with priority Joint > Person1Synergy > Person2Synergy > BothHave >
// Solo. Numbers that match no bucket stay uncolored.
package classify
