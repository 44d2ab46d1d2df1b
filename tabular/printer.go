// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package tabular prints lists of records as tables.
package tabular

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// New creates a tablewriter.Table holding one row per element of valueList.
//
// Each element should be a simple struct (not pointer) with a number of fields.
// Each field corresponds to a column in the table, the field must have json tag.
// The tag name is the column name in the table header.
//
// For example:
//
//	type familyRow struct {
//	  Name    string `json:"name"`
//	  Samples string `json:"samples"`
//	}
//	var rows []interface{}
//	...
//	tabular.Print(os.Stdout, rows)
func New(writer io.Writer, valueList []interface{}) *tablewriter.Table {
	tabWriter := NewTabWriter(writer)
	if len(valueList) == 0 {
		return tabWriter
	}
	header := getHeaderFromValueList(valueList)
	tabWriter.SetHeader(header)
	var headerColors []tablewriter.Colors
	for range header {
		headerColors = append(headerColors, tablewriter.Colors{tablewriter.Bold})
	}
	tabWriter.SetHeaderColor(headerColors...)

	for _, val := range valueList {
		tabWriter.Append(rowOf(val))
	}
	return tabWriter
}

// rowOf prints the fields of val in their declaration order.
func rowOf(val interface{}) []string {
	v := reflect.ValueOf(val)
	row := make([]string, 0, v.NumField())
	for i := 0; i < v.NumField(); i++ {
		row = append(row, fmt.Sprintf("%v", v.Field(i).Interface()))
	}
	return row
}

// NewTabWriter returns a left aligned table writing to writer.
func NewTabWriter(writer io.Writer) *tablewriter.Table {
	tabWriter := tablewriter.NewWriter(writer)
	tabWriter.SetAlignment(tablewriter.ALIGN_LEFT)
	tabWriter.SetAutoFormatHeaders(false)
	return tabWriter
}

// Print out the list of elements in tabular form. Nothing is printed for an
// empty list.
func Print(writer io.Writer, valueList []interface{}) {
	if len(valueList) == 0 {
		return
	}
	New(writer, valueList).Render()
}

func getHeaderFromValueList(valueList []interface{}) []string {
	var header []string
	reflectedType := reflect.TypeOf(valueList[0])
	for i := 0; i < reflectedType.NumField(); i++ {
		jsonTagName := reflectedType.Field(i).Tag.Get("json")
		header = append(header, formatColumnName(jsonTagName))
	}
	return header
}

func formatColumnName(jsonTagName string) string {
	words := strings.Split(jsonTagName, "_")
	for i, w := range words {
		words[i] = strings.ToTitle(w)
	}
	return strings.Join(words, "\n")
}

// CountFormatter formats a count with thousands separators.
func CountFormatter(v int64) string {
	return humanize.Comma(v)
}

// ByteFormatter formats a size in bytes.
func ByteFormatter(v int64) string {
	return humanize.IBytes(uint64(v))
}
