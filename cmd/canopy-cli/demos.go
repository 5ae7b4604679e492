package main

import (
	"github.com/paveg/canopy"
)

var demoOrder = []string{"people", "pivot", "join", "explode"}

var demos = map[string]func() (*canopy.DataFrame, error){
	"people":  peopleByCity,
	"pivot":   pivotCities,
	"join":    leftJoin,
	"explode": explodeList,
}

func people() (*canopy.DataFrame, error) {
	name, err := canopy.NewDataFrame(
		canopy.NewSeries("firstName", []string{"Alice", "Bob", "Charlie", "Charlie", "Bob", "Alice", "Charlie"}),
		canopy.NewSeries("lastName", []string{"Cooper", "Dylan", "Daniels", "Chaplin", "Marley", "Wolf", "Byrd"}),
	)
	if err != nil {
		return nil, err
	}
	return canopy.NewDataFrame(
		canopy.NewGroupColumn("name", name),
		canopy.NewSeries("age", []int64{15, 45, 20, 40, 30, 20, 30}),
		canopy.SeriesOf("city", "London", "Dubai", "Moscow", "Milan", "Tokyo", nil, "Moscow"),
		canopy.SeriesOf("weight", 54, 87, nil, nil, 68, 55, 90),
		canopy.NewSeries("isHappy", []bool{true, true, false, true, true, false, true}),
	)
}

func peopleByCity() (*canopy.DataFrame, error) {
	df, err := people()
	if err != nil {
		return nil, err
	}
	g, err := df.GroupBy(canopy.ByName("city"))
	if err != nil {
		return nil, err
	}
	return g.Aggregate(
		canopy.Count(),
		canopy.Mean(canopy.Path("age")).Into("meanAge"),
		canopy.Max(canopy.Path("weight")).Into("maxWeight"),
	)
}

func pivotCities() (*canopy.DataFrame, error) {
	df, err := canopy.NewDataFrame(
		canopy.NewSeries("city", []string{"London", "London", "Paris"}),
		canopy.NewSeries("age", []int64{15, 45, 20}),
	)
	if err != nil {
		return nil, err
	}
	g, err := df.GroupBy(canopy.ByName("city"))
	if err != nil {
		return nil, err
	}
	return g.Pivot(canopy.PivotOptions{Keys: canopy.Paths("city"), Reducers: []canopy.Reducer{canopy.Count()}})
}

func leftJoin() (*canopy.DataFrame, error) {
	left, err := canopy.NewDataFrame(canopy.NewSeries("a", []int64{1, 2}))
	if err != nil {
		return nil, err
	}
	right, err := canopy.NewDataFrame(canopy.NewSeries("a", []int64{1}), canopy.NewSeries("b", []int64{10}))
	if err != nil {
		return nil, err
	}
	return left.Join(right, &canopy.JoinOptions{Type: canopy.LeftJoin})
}

func explodeList() (*canopy.DataFrame, error) {
	df, err := canopy.NewDataFrame(
		canopy.SeriesOf("a", canopy.ValueOf([]any{1, 2, 3})),
		canopy.NewSeries("s", []string{"x"}),
	)
	if err != nil {
		return nil, err
	}
	return df.Explode(canopy.ExplodeOptions{Paths: canopy.Paths("a")})
}
